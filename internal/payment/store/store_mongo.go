package store

import (
	"context"
	"fmt"
	"time"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"

	"clubsphere/internal/payment"
	"clubsphere/pkg/platform/sentinel"
)

// MongoStore backs the ledger with three collections, each carrying a
// unique index on paymentId.
type MongoStore struct {
	payments      *mongo.Collection
	memberships   *mongo.Collection
	registrations *mongo.Collection
}

func NewMongoStore(db *mongo.Database) *MongoStore {
	return &MongoStore{
		payments:      db.Collection("payments"),
		memberships:   db.Collection("memberships"),
		registrations: db.Collection("registrations"),
	}
}

// EnsureIndexes declares the paymentId uniqueness constraints. Called once
// at startup; the constraint, not application logic, is what guarantees
// exactly-once record creation under replay.
func (s *MongoStore) EnsureIndexes(ctx context.Context) error {
	model := mongo.IndexModel{
		Keys:    bson.D{{Key: "paymentId", Value: 1}},
		Options: options.Index().SetUnique(true),
	}
	for _, col := range []*mongo.Collection{s.payments, s.memberships, s.registrations} {
		if _, err := col.Indexes().CreateOne(ctx, model); err != nil {
			return fmt.Errorf("ensure %s indexes: %w", col.Name(), err)
		}
	}
	return nil
}

type paymentDoc struct {
	PaymentID string       `bson:"paymentId"`
	UserEmail string       `bson:"userEmail"`
	SubjectID string       `bson:"subjectId"`
	Amount    int64        `bson:"amount"`
	Kind      payment.Kind `bson:"kind"`
	Status    string       `bson:"status"`
	CreatedAt time.Time    `bson:"createdAt"`
}

func (s *MongoStore) InsertPayment(ctx context.Context, rec *payment.PaymentRecord) error {
	_, err := s.payments.InsertOne(ctx, paymentDoc{
		PaymentID: rec.PaymentID,
		UserEmail: rec.UserEmail,
		SubjectID: rec.SubjectID,
		Amount:    rec.Amount,
		Kind:      rec.Kind,
		Status:    rec.Status,
		CreatedAt: rec.CreatedAt,
	})
	return translateInsertErr(err, "insert payment")
}

func (s *MongoStore) InsertMembership(ctx context.Context, rec *payment.MembershipRecord) error {
	_, err := s.memberships.InsertOne(ctx, bson.M{
		"clubId":    rec.ClubID,
		"userEmail": rec.UserEmail,
		"paymentId": rec.PaymentID,
		"status":    rec.Status,
		"joinedAt":  rec.JoinedAt,
	})
	return translateInsertErr(err, "insert membership")
}

func (s *MongoStore) InsertRegistration(ctx context.Context, rec *payment.RegistrationRecord) error {
	_, err := s.registrations.InsertOne(ctx, bson.M{
		"eventId":   rec.EventID,
		"userEmail": rec.UserEmail,
		"paymentId": rec.PaymentID,
		"status":    rec.Status,
		"regAt":     rec.RegisteredAt,
	})
	return translateInsertErr(err, "insert registration")
}

func (s *MongoStore) ListPayments(ctx context.Context) ([]payment.PaymentRecord, error) {
	cur, err := s.payments.Find(ctx, bson.M{}, options.Find().SetSort(bson.D{{Key: "createdAt", Value: -1}}))
	if err != nil {
		return nil, fmt.Errorf("list payments: %w", err)
	}
	defer cur.Close(ctx)

	var records []payment.PaymentRecord
	for cur.Next(ctx) {
		var doc paymentDoc
		if err := cur.Decode(&doc); err != nil {
			return nil, fmt.Errorf("decode payment: %w", err)
		}
		records = append(records, payment.PaymentRecord{
			PaymentID: doc.PaymentID,
			UserEmail: doc.UserEmail,
			SubjectID: doc.SubjectID,
			Amount:    doc.Amount,
			Kind:      doc.Kind,
			Status:    doc.Status,
			CreatedAt: doc.CreatedAt,
		})
	}
	return records, cur.Err()
}

func translateInsertErr(err error, op string) error {
	if err == nil {
		return nil
	}
	if mongo.IsDuplicateKeyError(err) {
		return sentinel.ErrConflict
	}
	return fmt.Errorf("%s: %w", op, err)
}
