package event

import (
	"context"
	"fmt"
	"time"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"

	dErrors "clubsphere/pkg/domain-errors"
	"clubsphere/pkg/platform/sentinel"
)

type MongoStore struct {
	col *mongo.Collection
}

func NewMongoStore(db *mongo.Database) *MongoStore {
	return &MongoStore{col: db.Collection("events")}
}

type eventDoc struct {
	ID            primitive.ObjectID `bson:"_id,omitempty"`
	Title         string             `bson:"title"`
	ClubID        string             `bson:"clubId"`
	ClubName      string             `bson:"clubName,omitempty"`
	Description   string             `bson:"description,omitempty"`
	Date          time.Time          `bson:"date"`
	Location      string             `bson:"location,omitempty"`
	FeeMinorUnits int64              `bson:"feeMinorUnits"`
	Attendees     []string           `bson:"attendees"`
	CreatedAt     time.Time          `bson:"createdAt"`
}

func (d eventDoc) toModel() Event {
	attendees := d.Attendees
	if attendees == nil {
		attendees = []string{}
	}
	return Event{
		ID:            d.ID.Hex(),
		Title:         d.Title,
		ClubID:        d.ClubID,
		ClubName:      d.ClubName,
		Description:   d.Description,
		Date:          d.Date,
		Location:      d.Location,
		FeeMinorUnits: d.FeeMinorUnits,
		Attendees:     attendees,
		CreatedAt:     d.CreatedAt,
	}
}

func (s *MongoStore) List(ctx context.Context) ([]Event, error) {
	cur, err := s.col.Find(ctx, bson.M{})
	if err != nil {
		return nil, fmt.Errorf("list events: %w", err)
	}
	defer cur.Close(ctx)

	var events []Event
	for cur.Next(ctx) {
		var doc eventDoc
		if err := cur.Decode(&doc); err != nil {
			return nil, fmt.Errorf("decode event: %w", err)
		}
		events = append(events, doc.toModel())
	}
	return events, cur.Err()
}

func (s *MongoStore) Get(ctx context.Context, id string) (*Event, error) {
	oid, err := parseEventID(id)
	if err != nil {
		return nil, err
	}
	var doc eventDoc
	if err := s.col.FindOne(ctx, bson.M{"_id": oid}).Decode(&doc); err != nil {
		if err == mongo.ErrNoDocuments {
			return nil, sentinel.ErrNotFound
		}
		return nil, fmt.Errorf("get event: %w", err)
	}
	e := doc.toModel()
	return &e, nil
}

func (s *MongoStore) Insert(ctx context.Context, e *Event) (string, error) {
	doc := eventDoc{
		Title:         e.Title,
		ClubID:        e.ClubID,
		ClubName:      e.ClubName,
		Description:   e.Description,
		Date:          e.Date,
		Location:      e.Location,
		FeeMinorUnits: e.FeeMinorUnits,
		Attendees:     []string{},
		CreatedAt:     e.CreatedAt,
	}
	res, err := s.col.InsertOne(ctx, doc)
	if err != nil {
		return "", fmt.Errorf("insert event: %w", err)
	}
	return res.InsertedID.(primitive.ObjectID).Hex(), nil
}

func (s *MongoStore) Update(ctx context.Context, id string, upd Update) error {
	oid, err := parseEventID(id)
	if err != nil {
		return err
	}
	res, err := s.col.UpdateOne(ctx, bson.M{"_id": oid}, bson.M{"$set": bson.M{
		"title":         upd.Title,
		"description":   upd.Description,
		"date":          upd.Date,
		"location":      upd.Location,
		"feeMinorUnits": upd.FeeMinorUnits,
	}})
	if err != nil {
		return fmt.Errorf("update event: %w", err)
	}
	if res.MatchedCount == 0 {
		return sentinel.ErrNotFound
	}
	return nil
}

func (s *MongoStore) Delete(ctx context.Context, id string) error {
	oid, err := parseEventID(id)
	if err != nil {
		return err
	}
	res, err := s.col.DeleteOne(ctx, bson.M{"_id": oid})
	if err != nil {
		return fmt.Errorf("delete event: %w", err)
	}
	if res.DeletedCount == 0 {
		return sentinel.ErrNotFound
	}
	return nil
}

// AddAttendee is the event-side conditional append; see MongoStore.AddMember
// on the club store for the atomicity argument.
func (s *MongoStore) AddAttendee(ctx context.Context, id, email string) (bool, error) {
	oid, err := parseEventID(id)
	if err != nil {
		return false, err
	}
	res, err := s.col.UpdateOne(ctx,
		bson.M{"_id": oid, "attendees": bson.M{"$ne": email}},
		bson.M{"$push": bson.M{"attendees": email}},
	)
	if err != nil {
		return false, fmt.Errorf("add attendee: %w", err)
	}
	return res.ModifiedCount == 1, nil
}

func parseEventID(id string) (primitive.ObjectID, error) {
	oid, err := primitive.ObjectIDFromHex(id)
	if err != nil {
		return primitive.NilObjectID, dErrors.New(dErrors.CodeInvalidRequest, "malformed event id")
	}
	return oid, nil
}
