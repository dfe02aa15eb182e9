// Package repository holds what the Mongo repositories share.
package repository

import (
	"context"
	"errors"
	"regexp"
	"strings"
	"time"

	"slotwise/models"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
)

var (
	ErrNotFound  = errors.New("document not found")
	ErrDuplicate = errors.New("duplicate key")
	// ErrSlotUnavailable means the conditional slot update matched nothing:
	// the slot is booked, gone, or belongs to another provider.
	ErrSlotUnavailable = errors.New("availability is not free")
	// ErrStatusChanged means the appointment left the expected status concurrently.
	ErrStatusChanged = errors.New("appointment status changed concurrently")
)

const (
	readTimeout  = 5 * time.Second
	writeTimeout = 5 * time.Second
	indexTimeout = 10 * time.Second

	writeConflictCode = 112
)

// WithReadTimeout bounds a single read against the database.
func WithReadTimeout(ctx context.Context) (context.Context, context.CancelFunc) {
	return context.WithTimeout(ctx, readTimeout)
}

// WithWriteTimeout bounds a single write against the database.
func WithWriteTimeout(ctx context.Context) (context.Context, context.CancelFunc) {
	return context.WithTimeout(ctx, writeTimeout)
}

// WithIndexTimeout bounds index creation.
func WithIndexTimeout() (context.Context, context.CancelFunc) {
	return context.WithTimeout(context.Background(), indexTimeout)
}

// MapWriteError translates driver duplicate-key failures to ErrDuplicate.
func MapWriteError(err error) error {
	if err == nil {
		return nil
	}
	if mongo.IsDuplicateKeyError(err) {
		return ErrDuplicate
	}
	return err
}

// MapFindError translates a missing document to ErrNotFound.
func MapFindError(err error) error {
	if errors.Is(err, mongo.ErrNoDocuments) {
		return ErrNotFound
	}
	return err
}

// IsTransientTxnError reports whether a transaction lost a write conflict.
func IsTransientTxnError(err error) bool {
	var srvErr mongo.ServerError
	if !errors.As(err, &srvErr) {
		return false
	}
	return srvErr.HasErrorLabel("TransientTransactionError") || srvErr.HasErrorCode(writeConflictCode)
}

// PageOptions returns find options selecting req's window in sort order.
func PageOptions(req models.PageRequest, sort bson.D) *options.FindOptions {
	return options.Find().
		SetSort(sort).
		SetSkip(req.Skip()).
		SetLimit(int64(req.Size))
}

// ContainsFold builds a case-insensitive substring match for term.
func ContainsFold(term string) bson.M {
	return bson.M{"$regex": regexp.QuoteMeta(strings.TrimSpace(term)), "$options": "i"}
}

// FindAll decodes every document matching filter.
func FindAll[T any](ctx context.Context, coll *mongo.Collection, filter interface{}, opts ...*options.FindOptions) ([]T, error) {
	cursor, err := coll.Find(ctx, filter, opts...)
	if err != nil {
		return nil, err
	}
	defer cursor.Close(ctx)

	out := []T{}
	if err := cursor.All(ctx, &out); err != nil {
		return nil, err
	}
	return out, nil
}
