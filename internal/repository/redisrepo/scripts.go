package redisrepo

import "github.com/redis/go-redis/v9"

const (
	replyOK        = "ok"
	replyDuplicate = "duplicate"
	replyFull      = "full"
)

// KEYS: день, множество дат, журнал
// ARGV: member id, бронь, запись журнала, вместимость, дата
var createBookingScript = redis.NewScript(`
if redis.call('HEXISTS', KEYS[1], ARGV[1]) == 1 then
	return 'duplicate'
end
if redis.call('HLEN', KEYS[1]) >= tonumber(ARGV[4]) then
	return 'full'
end
redis.call('HSET', KEYS[1], ARGV[1], ARGV[2])
redis.call('SADD', KEYS[2], ARGV[5])
redis.call('LPUSH', KEYS[3], ARGV[3])
return 'ok'
`)

// KEYS: день, множество дат, журнал
// ARGV: member id, запись журнала, дата
var deleteBookingScript = redis.NewScript(`
local booking = redis.call('HGET', KEYS[1], ARGV[1])
if not booking then
	return false
end
redis.call('HDEL', KEYS[1], ARGV[1])
if redis.call('HLEN', KEYS[1]) == 0 then
	redis.call('SREM', KEYS[2], ARGV[3])
end
redis.call('LPUSH', KEYS[3], ARGV[2])
return booking
`)

// KEYS: участники, порядок участников
// ARGV: пары id, json
var seedMembersScript = redis.NewScript(`
if redis.call('EXISTS', KEYS[1]) == 1 then
	return 0
end
for i = 1, #ARGV, 2 do
	redis.call('HSET', KEYS[1], ARGV[i], ARGV[i + 1])
	redis.call('RPUSH', KEYS[2], ARGV[i])
end
return #ARGV / 2
`)
