package storage

import (
	"context"
	"encoding/json"
	"fmt"
	"storefront-service/internal/model"
	"storefront-service/prometheus"
	"strings"
	"time"

	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/trace"
	"go.uber.org/zap"
)

// Record keys
const (
	KeyProducts   = "products"
	KeyCart       = "cart"
	KeySession    = "session"
	KeyUsers      = "users"
	KeyProductSeq = "product_seq"
)

// Store gives typed access to the storefront records kept in a Backend.
//
// Reads never fail on missing or unparsable data: they return the record's default
// (empty list, no session, zero) and log the corruption. Only backend failures are errors.
type Store struct {
	backend   Backend
	namespace string
	log       *zap.Logger
	tracer    trace.Tracer
}

// NewStore scopes every record key under namespace
func NewStore(backend Backend, namespace string, log *zap.Logger) *Store {
	if log == nil {
		log = zap.NewNop()
	}
	return &Store{
		backend:   backend,
		namespace: namespace,
		log:       log,
		tracer:    otel.Tracer("storefront-service/storage"),
	}
}

func (s *Store) key(name string) string {
	return s.namespace + name
}

// Products returns the product list in stored order
func (s *Store) Products(ctx context.Context) ([]model.Product, error) {
	products, _, err := read[[]model.Product](ctx, s, KeyProducts)
	if products == nil {
		products = []model.Product{}
	}
	return products, err
}

// SaveProducts overwrites the product list
func (s *Store) SaveProducts(ctx context.Context, products []model.Product) error {
	return s.write(ctx, KeyProducts, products)
}

// SaveProductsWithSeq writes the product list and the id sequence together
func (s *Store) SaveProductsWithSeq(ctx context.Context, products []model.Product, seq int) error {
	return s.writeMany(ctx, record{KeyProducts, products}, record{KeyProductSeq, seq})
}

// ProductSeq returns the highest product id ever assigned, 0 when unknown
func (s *Store) ProductSeq(ctx context.Context) (int, error) {
	seq, _, err := read[int](ctx, s, KeyProductSeq)
	return seq, err
}

// Cart returns the cart lines in stored order
func (s *Store) Cart(ctx context.Context) ([]model.CartLine, error) {
	lines, _, err := read[[]model.CartLine](ctx, s, KeyCart)
	if lines == nil {
		lines = []model.CartLine{}
	}
	return lines, err
}

// SaveCart overwrites the cart
func (s *Store) SaveCart(ctx context.Context, lines []model.CartLine) error {
	if lines == nil {
		lines = []model.CartLine{}
	}
	return s.write(ctx, KeyCart, lines)
}

// CommitCheckout writes the decremented product list and an empty cart in one atomic write
func (s *Store) CommitCheckout(ctx context.Context, products []model.Product) error {
	return s.writeMany(ctx, record{KeyProducts, products}, record{KeyCart, []model.CartLine{}})
}

// Session returns the active session, or nil when there is none
func (s *Store) Session(ctx context.Context) (*model.Session, error) {
	session, _, err := read[*model.Session](ctx, s, KeySession)
	return session, err
}

// SaveSession replaces the active session
func (s *Store) SaveSession(ctx context.Context, session model.Session) error {
	return s.write(ctx, KeySession, session)
}

// ClearSession removes the session record
func (s *Store) ClearSession(ctx context.Context) error {
	return s.delete(ctx, KeySession)
}

// Users returns the account directory
func (s *Store) Users(ctx context.Context) ([]model.User, error) {
	users, _, err := read[[]model.User](ctx, s, KeyUsers)
	if users == nil {
		users = []model.User{}
	}
	return users, err
}

// SaveUsers overwrites the account directory
func (s *Store) SaveUsers(ctx context.Context, users []model.User) error {
	return s.write(ctx, KeyUsers, users)
}

// SeedResult reports which records Seed populated
type SeedResult struct {
	Users    bool
	Products bool
}

// Seed writes seed users and products only for records that are entirely absent.
// An existing record, even an empty or corrupt one, is left untouched.
func (s *Store) Seed(ctx context.Context, seed *model.Seed) (SeedResult, error) {
	var result SeedResult

	usersExist, err := s.exists(ctx, KeyUsers)
	if err != nil {
		return result, err
	}
	if !usersExist {
		if err := s.SaveUsers(ctx, seed.Users); err != nil {
			return result, err
		}
		result.Users = true
	}

	productsExist, err := s.exists(ctx, KeyProducts)
	if err != nil {
		return result, err
	}
	if !productsExist {
		seqExists, err := s.exists(ctx, KeyProductSeq)
		if err != nil {
			return result, err
		}
		if seqExists {
			err = s.SaveProducts(ctx, seed.Products)
		} else {
			err = s.SaveProductsWithSeq(ctx, seed.Products, model.MaxProductID(seed.Products))
		}
		if err != nil {
			return result, err
		}
		result.Products = true
	}

	s.log.Info("Seed initialization finished",
		zap.Bool("users_seeded", result.Users),
		zap.Bool("products_seeded", result.Products))
	return result, nil
}

// Reset deletes every storefront record
func (s *Store) Reset(ctx context.Context) error {
	for _, key := range []string{KeyProducts, KeyCart, KeySession, KeyUsers, KeyProductSeq} {
		if err := s.delete(ctx, key); err != nil {
			return err
		}
	}
	s.log.Warn("Store reset", zap.String("namespace", s.namespace))
	return nil
}

func (s *Store) exists(ctx context.Context, name string) (bool, error) {
	_, found, err := s.backend.Get(ctx, s.key(name))
	if err != nil {
		return false, fmt.Errorf("failed to read %s: %w", name, err)
	}
	return found, nil
}

// read decodes the record into T. found is false when the record is missing or corrupt.
func read[T any](ctx context.Context, s *Store, name string) (value T, found bool, err error) {
	defer prometheus.TrackStoreOperation("get", name)(time.Now())
	ctx, span := s.tracer.Start(ctx, "store.get", trace.WithAttributes(attribute.String("store.key", name)))
	defer span.End()

	raw, ok, err := s.backend.Get(ctx, s.key(name))
	if err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, "backend read failed")
		return value, false, fmt.Errorf("failed to read %s: %w", name, err)
	}
	if !ok {
		return value, false, nil
	}

	var decoded T
	if err := json.Unmarshal([]byte(raw), &decoded); err != nil {
		s.log.Warn("Corrupt record replaced by default value",
			zap.String("key", name),
			zap.Error(err))
		prometheus.RecordCorruptRecord(name)
		span.SetAttributes(attribute.Bool("store.corrupt", true))
		return value, false, nil
	}
	return decoded, true, nil
}

func (s *Store) write(ctx context.Context, name string, value any) error {
	defer prometheus.TrackStoreOperation("set", name)(time.Now())
	ctx, span := s.tracer.Start(ctx, "store.set", trace.WithAttributes(attribute.String("store.key", name)))
	defer span.End()

	data, err := json.Marshal(value)
	if err != nil {
		return fmt.Errorf("failed to encode %s: %w", name, err)
	}
	if err := s.backend.Set(ctx, s.key(name), string(data)); err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, "backend write failed")
		return fmt.Errorf("failed to write %s: %w", name, err)
	}
	return nil
}

type record struct {
	name  string
	value any
}

// writeMany encodes the records and writes them in one atomic backend call
func (s *Store) writeMany(ctx context.Context, records ...record) error {
	names := make([]string, 0, len(records))
	for _, r := range records {
		names = append(names, r.name)
	}
	label := strings.Join(names, "+")

	defer prometheus.TrackStoreOperation("set_many", label)(time.Now())
	ctx, span := s.tracer.Start(ctx, "store.set_many", trace.WithAttributes(attribute.String("store.key", label)))
	defer span.End()

	entries := make([]Entry, 0, len(records))
	for _, r := range records {
		data, err := json.Marshal(r.value)
		if err != nil {
			return fmt.Errorf("failed to encode %s: %w", r.name, err)
		}
		entries = append(entries, Entry{Key: s.key(r.name), Value: string(data)})
	}
	if err := s.backend.SetMany(ctx, entries...); err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, "backend write failed")
		return fmt.Errorf("failed to write %s: %w", label, err)
	}
	return nil
}

func (s *Store) delete(ctx context.Context, name string) error {
	defer prometheus.TrackStoreOperation("delete", name)(time.Now())
	ctx, span := s.tracer.Start(ctx, "store.delete", trace.WithAttributes(attribute.String("store.key", name)))
	defer span.End()

	if err := s.backend.Delete(ctx, s.key(name)); err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, "backend delete failed")
		return fmt.Errorf("failed to delete %s: %w", name, err)
	}
	return nil
}
