package models

import (
	"context"
	"errors"
	"time"

	"github.com/google/uuid"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
)

type mongoEventRepo struct {
	col *mongo.Collection
}

func NewMongoEventRepository(col *mongo.Collection) EventRepository {
	return &mongoEventRepo{col: col}
}

func opCtx() (context.Context, context.CancelFunc) {
	return context.WithTimeout(context.Background(), 5*time.Second)
}

// FindUpcoming returns events dated at or after the current instant,
// ascending by date. "Now" is evaluated per call; nothing is cached here.
func (r *mongoEventRepo) FindUpcoming() ([]Event, error) {
	ctx, cancel := opCtx()
	defer cancel()

	filter := bson.M{"date": bson.M{"$gte": time.Now().UTC()}}
	cur, err := r.col.Find(ctx, filter, options.Find().SetSort(bson.D{{Key: "date", Value: 1}}))
	if err != nil {
		return nil, err
	}
	defer cur.Close(ctx)

	out := []Event{}
	for cur.Next(ctx) {
		var e Event
		if err := cur.Decode(&e); err != nil {
			return nil, err
		}
		out = append(out, e)
	}
	return out, cur.Err()
}

func (r *mongoEventRepo) FindByID(id string) (*Event, error) {
	ctx, cancel := opCtx()
	defer cancel()

	var e Event
	if err := r.col.FindOne(ctx, bson.M{"_id": id}).Decode(&e); err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return nil, nil
		}
		return nil, err
	}
	return &e, nil
}

// FindByUser returns events the user organizes or participates in.
func (r *mongoEventRepo) FindByUser(userID string) ([]Event, error) {
	ctx, cancel := opCtx()
	defer cancel()

	filter := bson.M{"$or": []bson.M{
		{"organizer": userID},
		{"participants": userID},
	}}
	cur, err := r.col.Find(ctx, filter)
	if err != nil {
		return nil, err
	}
	defer cur.Close(ctx)

	out := []Event{}
	for cur.Next(ctx) {
		var e Event
		if err := cur.Decode(&e); err != nil {
			return nil, err
		}
		out = append(out, e)
	}
	return out, cur.Err()
}

// AddParticipant is a set-add: $addToSet keeps the membership duplicate-free
// and adding an existing member matches but changes nothing. A missing event
// matches zero documents, which is still success here.
func (r *mongoEventRepo) AddParticipant(eventID, userID string) error {
	ctx, cancel := opCtx()
	defer cancel()

	_, err := r.col.UpdateOne(ctx,
		bson.M{"_id": eventID},
		bson.M{"$addToSet": bson.M{"participants": userID}})
	return err
}

// RemoveParticipant is the matching set-remove; pulling an absent member is
// a no-op.
func (r *mongoEventRepo) RemoveParticipant(eventID, userID string) error {
	ctx, cancel := opCtx()
	defer cancel()

	_, err := r.col.UpdateOne(ctx,
		bson.M{"_id": eventID},
		bson.M{"$pull": bson.M{"participants": userID}})
	return err
}

func (r *mongoEventRepo) Create(e *Event) error {
	ctx, cancel := opCtx()
	defer cancel()

	if e.ID == "" {
		e.ID = uuid.NewString()
	}
	if e.Participants == nil {
		e.Participants = []string{}
	}
	_, err := r.col.InsertOne(ctx, e)
	return err
}

func (r *mongoEventRepo) Update(id string, upd EventUpdate) error {
	ctx, cancel := opCtx()
	defer cancel()

	set := bson.M{
		"title":       upd.Title,
		"description": upd.Description,
		"date":        upd.Date,
		"time":        upd.Time,
		"category":    upd.Category,
		"venue":       upd.Venue,
		"timeZone":    upd.TimeZone,
	}
	_, err := r.col.UpdateOne(ctx, bson.M{"_id": id}, bson.M{"$set": set})
	return err
}

func (r *mongoEventRepo) Delete(id string) (int64, error) {
	ctx, cancel := opCtx()
	defer cancel()

	res, err := r.col.DeleteOne(ctx, bson.M{"_id": id})
	if err != nil {
		return 0, err
	}
	return res.DeletedCount, nil
}

// CategorizeUpcoming partitions the upcoming events into the four fixed
// buckets. Events with an unknown category are dropped from all buckets.
func (r *mongoEventRepo) CategorizeUpcoming() (CategorizedEvents, error) {
	events, err := r.FindUpcoming()
	if err != nil {
		return nil, err
	}
	return PartitionByCategory(events), nil
}

// PartitionByCategory buckets events by their category, skipping any event
// whose category is outside the closed set.
func PartitionByCategory(events []Event) CategorizedEvents {
	buckets := CategorizedEvents{}
	for _, c := range Categories {
		buckets[c] = []Event{}
	}
	for _, e := range events {
		if _, ok := buckets[e.Category]; ok {
			buckets[e.Category] = append(buckets[e.Category], e)
		}
	}
	return buckets
}
