package club

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

// MongoStore persists clubs in the clubs collection.
type MongoStore struct {
	col *mongo.Collection
}

func NewMongoStore(db *mongo.Database) *MongoStore {
	return &MongoStore{col: db.Collection("clubs")}
}

type clubDoc struct {
	ID            primitive.ObjectID `bson:"_id,omitempty"`
	Name          string             `bson:"name"`
	Description   string             `bson:"description,omitempty"`
	Category      string             `bson:"category,omitempty"`
	FeeMinorUnits int64              `bson:"feeMinorUnits"`
	ManagerEmail  string             `bson:"managerEmail,omitempty"`
	Members       []string           `bson:"members"`
	CreatedAt     time.Time          `bson:"createdAt"`
}

func (d clubDoc) toModel() Club {
	members := d.Members
	if members == nil {
		members = []string{}
	}
	return Club{
		ID:            d.ID.Hex(),
		Name:          d.Name,
		Description:   d.Description,
		Category:      d.Category,
		FeeMinorUnits: d.FeeMinorUnits,
		ManagerEmail:  d.ManagerEmail,
		Members:       members,
		CreatedAt:     d.CreatedAt,
	}
}

func (s *MongoStore) List(ctx context.Context) ([]Club, error) {
	cur, err := s.col.Find(ctx, bson.M{})
	if err != nil {
		return nil, fmt.Errorf("list clubs: %w", err)
	}
	defer cur.Close(ctx)

	var clubs []Club
	for cur.Next(ctx) {
		var doc clubDoc
		if err := cur.Decode(&doc); err != nil {
			return nil, fmt.Errorf("decode club: %w", err)
		}
		clubs = append(clubs, doc.toModel())
	}
	return clubs, cur.Err()
}

func (s *MongoStore) Get(ctx context.Context, id string) (*Club, error) {
	oid, err := parseClubID(id)
	if err != nil {
		return nil, err
	}
	var doc clubDoc
	if err := s.col.FindOne(ctx, bson.M{"_id": oid}).Decode(&doc); err != nil {
		if err == mongo.ErrNoDocuments {
			return nil, sentinel.ErrNotFound
		}
		return nil, fmt.Errorf("get club: %w", err)
	}
	c := doc.toModel()
	return &c, nil
}

func (s *MongoStore) Insert(ctx context.Context, c *Club) (string, error) {
	doc := clubDoc{
		Name:          c.Name,
		Description:   c.Description,
		Category:      c.Category,
		FeeMinorUnits: c.FeeMinorUnits,
		ManagerEmail:  c.ManagerEmail,
		Members:       []string{},
		CreatedAt:     c.CreatedAt,
	}
	res, err := s.col.InsertOne(ctx, doc)
	if err != nil {
		return "", fmt.Errorf("insert club: %w", err)
	}
	return res.InsertedID.(primitive.ObjectID).Hex(), nil
}

func (s *MongoStore) Update(ctx context.Context, id string, upd Update) error {
	oid, err := parseClubID(id)
	if err != nil {
		return err
	}
	res, err := s.col.UpdateOne(ctx, bson.M{"_id": oid}, bson.M{"$set": bson.M{
		"name":          upd.Name,
		"description":   upd.Description,
		"category":      upd.Category,
		"feeMinorUnits": upd.FeeMinorUnits,
		"managerEmail":  upd.ManagerEmail,
	}})
	if err != nil {
		return fmt.Errorf("update club: %w", err)
	}
	if res.MatchedCount == 0 {
		return sentinel.ErrNotFound
	}
	return nil
}

func (s *MongoStore) Delete(ctx context.Context, id string) error {
	oid, err := parseClubID(id)
	if err != nil {
		return err
	}
	res, err := s.col.DeleteOne(ctx, bson.M{"_id": oid})
	if err != nil {
		return fmt.Errorf("delete club: %w", err)
	}
	if res.DeletedCount == 0 {
		return sentinel.ErrNotFound
	}
	return nil
}

// AddMember appends email to the member set iff the club exists and the
// email is not already present. The combined filter plus the driver's
// single-document update atomicity is the whole concurrency story: the
// losing writer of a race simply matches zero documents.
func (s *MongoStore) AddMember(ctx context.Context, id, email string) (bool, error) {
	oid, err := parseClubID(id)
	if err != nil {
		return false, err
	}
	res, err := s.col.UpdateOne(ctx,
		bson.M{"_id": oid, "members": bson.M{"$ne": email}},
		bson.M{"$push": bson.M{"members": email}},
	)
	if err != nil {
		return false, fmt.Errorf("add member: %w", err)
	}
	return res.ModifiedCount == 1, nil
}

func parseClubID(id string) (primitive.ObjectID, error) {
	oid, err := primitive.ObjectIDFromHex(id)
	if err != nil {
		return primitive.NilObjectID, dErrors.New(dErrors.CodeInvalidRequest, "malformed club id")
	}
	return oid, nil
}
