// Package mongorepo хранилище на MongoDB.
//
// Транзакции требуют replica set, поэтому вместимость держится на счётчике в коллекции booking_days:
// условный $inc с upsert либо резервирует место, либо падает на уникальном _id, если день заполнен.
// При ошибке следующих шагов резерв откатывается.
package mongorepo

import (
	"context"
	"errors"
	"fmt"

	"github.com/Freeeeeet/slot_board/internal/model"
	"github.com/Freeeeeet/slot_board/internal/repository"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
	"go.mongodb.org/mongo-driver/mongo/readpref"
)

const (
	membersCollection    = "members"
	bookingsCollection   = "bookings"
	daysCollection       = "booking_days"
	activitiesCollection = "activities"
	commentsCollection   = "comments"
)

type Store struct {
	client     *mongo.Client
	members    *mongo.Collection
	bookings   *mongo.Collection
	days       *mongo.Collection
	activities *mongo.Collection
	comments   *mongo.Collection
}

var _ repository.Store = (*Store)(nil)

// Connect подключается к MongoDB и проверяет соединение
func Connect(ctx context.Context, uri string) (*mongo.Client, error) {
	client, err := mongo.Connect(ctx, options.Client().ApplyURI(uri))
	if err != nil {
		return nil, fmt.Errorf("connect mongo: %w", err)
	}

	if err := client.Ping(ctx, readpref.Primary()); err != nil {
		_ = client.Disconnect(context.Background())
		return nil, classify(fmt.Errorf("ping mongo: %w", err))
	}
	return client, nil
}

// NewStore создаёт хранилище в базе database
func NewStore(client *mongo.Client, database string) *Store {
	db := client.Database(database)
	return &Store{
		client:     client,
		members:    db.Collection(membersCollection),
		bookings:   db.Collection(bookingsCollection),
		days:       db.Collection(daysCollection),
		activities: db.Collection(activitiesCollection),
		comments:   db.Collection(commentsCollection),
	}
}

// EnsureIndexes создаёт индексы, нужные для уникальности и выборок
func (s *Store) EnsureIndexes(ctx context.Context) error {
	_, err := s.bookings.Indexes().CreateMany(ctx, []mongo.IndexModel{
		{
			Keys:    bson.D{{Key: "member_id", Value: 1}, {Key: "date", Value: 1}},
			Options: options.Index().SetUnique(true).SetName("member_date_unique"),
		},
		{Keys: bson.D{{Key: "date", Value: 1}, {Key: "created_at", Value: 1}}},
	})
	if err != nil {
		return classify(fmt.Errorf("create booking indexes: %w", err))
	}

	_, err = s.activities.Indexes().CreateMany(ctx, []mongo.IndexModel{
		{Keys: bson.D{{Key: "created_at", Value: -1}}},
		{Keys: bson.D{{Key: "date", Value: 1}, {Key: "created_at", Value: -1}}},
	})
	if err != nil {
		return classify(fmt.Errorf("create activity indexes: %w", err))
	}

	_, err = s.comments.Indexes().CreateOne(ctx, mongo.IndexModel{
		Keys: bson.D{{Key: "date", Value: 1}, {Key: "created_at", Value: -1}},
	})
	if err != nil {
		return classify(fmt.Errorf("create comment indexes: %w", err))
	}

	_, err = s.members.Indexes().CreateOne(ctx, mongo.IndexModel{
		Keys:    bson.D{{Key: "name", Value: 1}},
		Options: options.Index().SetUnique(true),
	})
	if err != nil {
		return classify(fmt.Errorf("create member indexes: %w", err))
	}
	return nil
}

func (s *Store) Name() string { return "mongo" }

func (s *Store) Ping(ctx context.Context) error {
	return classify(s.client.Ping(ctx, readpref.Primary()))
}

func (s *Store) Close() error {
	return s.client.Disconnect(context.Background())
}

// ListMembers возвращает участников в порядке создания
func (s *Store) ListMembers(ctx context.Context) ([]*model.Member, error) {
	opts := options.Find().SetSort(bson.D{{Key: "created_at", Value: 1}, {Key: "_id", Value: 1}})
	members := make([]*model.Member, 0)
	if err := s.findAll(ctx, s.members, bson.M{}, opts, &members); err != nil {
		return nil, fmt.Errorf("list members: %w", err)
	}
	return members, nil
}

func (s *Store) GetMember(ctx context.Context, id string) (*model.Member, error) {
	var m model.Member
	err := s.members.FindOne(ctx, bson.M{"_id": id}).Decode(&m)
	if err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return nil, nil
		}
		return nil, classify(fmt.Errorf("get member: %w", err))
	}
	return &m, nil
}

// SeedMembers заполняет пустую коллекцию. Повторы по имени от параллельного запуска пропускаются.
func (s *Store) SeedMembers(ctx context.Context, members []*model.Member) (int, error) {
	count, err := s.members.CountDocuments(ctx, bson.M{})
	if err != nil {
		return 0, classify(fmt.Errorf("count members: %w", err))
	}
	if count > 0 || len(members) == 0 {
		return 0, nil
	}

	docs := make([]any, 0, len(members))
	for _, m := range members {
		docs = append(docs, m)
	}

	res, err := s.members.InsertMany(ctx, docs, options.InsertMany().SetOrdered(false))
	if err != nil && !mongo.IsDuplicateKeyError(err) {
		return 0, classify(fmt.Errorf("seed members: %w", err))
	}
	if res == nil {
		return 0, nil
	}
	return len(res.InsertedIDs), nil
}

// CreateBooking проверяет дубликат, резервирует место в дне, затем пишет бронь и журнал
func (s *Store) CreateBooking(ctx context.Context, booking *model.Booking, activity *model.Activity, capacity int) error {
	err := s.bookings.FindOne(ctx, bson.M{"member_id": booking.MemberID, "date": booking.Date}).Err()
	switch {
	case err == nil:
		return model.ErrDuplicateBooking
	case !errors.Is(err, mongo.ErrNoDocuments):
		return classify(fmt.Errorf("check member booking: %w", err))
	}

	if err := s.reserve(ctx, booking.Date, capacity); err != nil {
		return err
	}

	if _, err := s.bookings.InsertOne(ctx, booking); err != nil {
		s.release(booking.Date)
		if mongo.IsDuplicateKeyError(err) {
			return model.ErrDuplicateBooking
		}
		return classify(fmt.Errorf("create booking: %w", err))
	}

	if _, err := s.activities.InsertOne(ctx, activity); err != nil {
		_, _ = s.bookings.DeleteOne(context.Background(), bson.M{"_id": booking.ID})
		s.release(booking.Date)
		return classify(fmt.Errorf("create activity: %w", err))
	}
	return nil
}

// DeleteBooking удаляет бронь и пишет журнал. Если журнал не записался, бронь возвращается.
func (s *Store) DeleteBooking(ctx context.Context, memberID, date string, activity *model.Activity) (*model.Booking, error) {
	var deleted model.Booking
	err := s.bookings.FindOneAndDelete(ctx, bson.M{"member_id": memberID, "date": date}).Decode(&deleted)
	if err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return nil, model.ErrBookingNotFound
		}
		return nil, classify(fmt.Errorf("delete booking: %w", err))
	}
	s.release(date)

	if _, err := s.activities.InsertOne(ctx, activity); err != nil {
		restoreCtx := context.Background()
		if _, rerr := s.bookings.InsertOne(restoreCtx, &deleted); rerr == nil {
			_, _ = s.days.UpdateOne(restoreCtx, bson.M{"_id": date}, bson.M{"$inc": bson.M{"count": 1}})
		}
		return nil, classify(fmt.Errorf("create activity: %w", err))
	}
	return &deleted, nil
}

// reserve увеличивает счётчик дня, пока он меньше вместимости
func (s *Store) reserve(ctx context.Context, date string, capacity int) error {
	_, err := s.days.UpdateOne(ctx,
		bson.M{"_id": date, "count": bson.M{"$lt": capacity}},
		bson.M{"$inc": bson.M{"count": 1}},
		options.Update().SetUpsert(true),
	)
	if err != nil {
		// документ дня уже есть и заполнен, upsert столкнулся с _id
		if mongo.IsDuplicateKeyError(err) {
			return model.ErrCapacityExceeded
		}
		return classify(fmt.Errorf("reserve slot: %w", err))
	}
	return nil
}

// release возвращает место в дне, ошибки игнорируются
func (s *Store) release(date string) {
	_, _ = s.days.UpdateOne(context.Background(),
		bson.M{"_id": date, "count": bson.M{"$gt": 0}},
		bson.M{"$inc": bson.M{"count": -1}},
	)
}

func (s *Store) ListBookings(ctx context.Context) ([]*model.Booking, error) {
	return s.listBookings(ctx, bson.M{})
}

func (s *Store) ListBookingsByDate(ctx context.Context, date string) ([]*model.Booking, error) {
	return s.listBookings(ctx, bson.M{"date": date})
}

func (s *Store) ListBookingsByMember(ctx context.Context, memberID string) ([]*model.Booking, error) {
	return s.listBookings(ctx, bson.M{"member_id": memberID})
}

func (s *Store) listBookings(ctx context.Context, filter bson.M) ([]*model.Booking, error) {
	opts := options.Find().SetSort(bson.D{{Key: "date", Value: 1}, {Key: "created_at", Value: 1}})
	bookings := make([]*model.Booking, 0)
	if err := s.findAll(ctx, s.bookings, filter, opts, &bookings); err != nil {
		return nil, fmt.Errorf("list bookings: %w", err)
	}
	return bookings, nil
}

func (s *Store) ListActivities(ctx context.Context) ([]*model.Activity, error) {
	return s.listActivities(ctx, bson.M{})
}

func (s *Store) ListActivitiesByDate(ctx context.Context, date string) ([]*model.Activity, error) {
	return s.listActivities(ctx, bson.M{"date": date})
}

func (s *Store) listActivities(ctx context.Context, filter bson.M) ([]*model.Activity, error) {
	opts := options.Find().SetSort(bson.D{{Key: "created_at", Value: -1}})
	activities := make([]*model.Activity, 0)
	if err := s.findAll(ctx, s.activities, filter, opts, &activities); err != nil {
		return nil, fmt.Errorf("list activities: %w", err)
	}
	return activities, nil
}

func (s *Store) CreateComment(ctx context.Context, comment *model.Comment) error {
	if _, err := s.comments.InsertOne(ctx, comment); err != nil {
		return classify(fmt.Errorf("create comment: %w", err))
	}
	return nil
}

func (s *Store) ListComments(ctx context.Context) ([]*model.Comment, error) {
	return s.listComments(ctx, bson.M{})
}

func (s *Store) ListCommentsByDate(ctx context.Context, date string) ([]*model.Comment, error) {
	return s.listComments(ctx, bson.M{"date": date})
}

func (s *Store) listComments(ctx context.Context, filter bson.M) ([]*model.Comment, error) {
	opts := options.Find().SetSort(bson.D{{Key: "created_at", Value: -1}})
	comments := make([]*model.Comment, 0)
	if err := s.findAll(ctx, s.comments, filter, opts, &comments); err != nil {
		return nil, fmt.Errorf("list comments: %w", err)
	}
	return comments, nil
}

// findAll выполняет Find и декодирует все документы в out
func (s *Store) findAll(ctx context.Context, coll *mongo.Collection, filter bson.M, opts *options.FindOptions, out any) error {
	cursor, err := coll.Find(ctx, filter, opts)
	if err != nil {
		return classify(err)
	}
	defer cursor.Close(ctx)

	return classify(cursor.All(ctx, out))
}

// classify помечает сетевые ошибки и таймауты как недоступность хранилища
func classify(err error) error {
	if err == nil {
		return nil
	}
	if mongo.IsNetworkError(err) || mongo.IsTimeout(err) ||
		errors.Is(err, mongo.ErrClientDisconnected) || errors.Is(err, context.DeadlineExceeded) {
		return model.Unavailable(err)
	}
	return err
}
