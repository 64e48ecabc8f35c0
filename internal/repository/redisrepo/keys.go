package redisrepo

import "fmt"

// keys раскладка ключей под общим префиксом
type keys struct {
	prefix string
}

func (k keys) members() string { return k.prefix + ":members" }

func (k keys) memberOrder() string { return k.prefix + ":members:order" }

func (k keys) dates() string { return k.prefix + ":booking-dates" }

// day хэш member id -> бронь на одну дату
func (k keys) day(date string) string {
	return fmt.Sprintf("%s:bookings:%s", k.prefix, date)
}

func (k keys) activities() string { return k.prefix + ":activities" }

func (k keys) comments() string { return k.prefix + ":comments" }
