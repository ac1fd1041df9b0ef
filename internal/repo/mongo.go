package repo

import (
	"context"
	"errors"
	"fmt"
	"time"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
	"go.mongodb.org/mongo-driver/mongo/readpref"

	"github.com/Skotchmaster/bistro_boss/internal/models"
)

const (
	usersCollection    = "users"
	menusCollection    = "menus"
	reviewsCollection  = "reviews"
	cartsCollection    = "cart"
	paymentsCollection = "payments"
)

type MongoRepo struct {
	Client *mongo.Client
	DB     *mongo.Database
}

func OpenMongo(ctx context.Context, uri, database string) (*MongoRepo, error) {
	if uri == "" {
		return nil, fmt.Errorf("MONGO_URI is empty")
	}

	opts := options.Client().
		ApplyURI(uri).
		SetServerAPIOptions(options.ServerAPI(options.ServerAPIVersion1).SetStrict(true).SetDeprecationErrors(true))

	client, err := mongo.Connect(ctx, opts)
	if err != nil {
		return nil, fmt.Errorf("connect mongo: %w", err)
	}

	pingCtx, cancel := context.WithTimeout(ctx, 3*time.Second)
	defer cancel()
	if err := client.Ping(pingCtx, readpref.Primary()); err != nil {
		_ = client.Disconnect(ctx)
		return nil, fmt.Errorf("ping mongo: %w", err)
	}

	return &MongoRepo{Client: client, DB: client.Database(database)}, nil
}

func (r *MongoRepo) Users() Collection[models.User] {
	return mongoCollection[models.User]{coll: r.DB.Collection(usersCollection)}
}

func (r *MongoRepo) Menus() Collection[models.MenuItem] {
	return mongoCollection[models.MenuItem]{coll: r.DB.Collection(menusCollection)}
}

func (r *MongoRepo) Reviews() Collection[models.Review] {
	return mongoCollection[models.Review]{coll: r.DB.Collection(reviewsCollection)}
}

func (r *MongoRepo) Carts() Collection[models.CartItem] {
	return mongoCollection[models.CartItem]{coll: r.DB.Collection(cartsCollection)}
}

func (r *MongoRepo) Payments() Collection[models.Payment] {
	return mongoCollection[models.Payment]{coll: r.DB.Collection(paymentsCollection)}
}

// InTx needs a replica set or sharded cluster; standalone servers reject
// transactions.
func (r *MongoRepo) InTx(ctx context.Context, fn func(ctx context.Context, s Store) error) error {
	sess, err := r.Client.StartSession()
	if err != nil {
		return fmt.Errorf("start session: %w", err)
	}
	defer sess.EndSession(ctx)

	_, err = sess.WithTransaction(ctx, func(sc mongo.SessionContext) (interface{}, error) {
		return nil, fn(sc, r)
	})
	return err
}

func (r *MongoRepo) Migrate(ctx context.Context) error {
	indexes := []struct {
		coll  string
		model mongo.IndexModel
	}{
		{usersCollection, mongo.IndexModel{Keys: bson.D{{Key: "email", Value: 1}}, Options: options.Index().SetUnique(true)}},
		{cartsCollection, mongo.IndexModel{Keys: bson.D{{Key: "email", Value: 1}}}},
		{paymentsCollection, mongo.IndexModel{Keys: bson.D{{Key: "email", Value: 1}}}},
		{menusCollection, mongo.IndexModel{Keys: bson.D{{Key: "category", Value: 1}}}},
	}
	for _, ix := range indexes {
		if _, err := r.DB.Collection(ix.coll).Indexes().CreateOne(ctx, ix.model); err != nil {
			return fmt.Errorf("create index on %s: %w", ix.coll, err)
		}
	}
	return nil
}

func (r *MongoRepo) Ping(ctx context.Context) error {
	return r.Client.Ping(ctx, readpref.Primary())
}

func (r *MongoRepo) Close(ctx context.Context) error {
	return r.Client.Disconnect(ctx)
}

type mongoCollection[T any] struct {
	coll *mongo.Collection
}

// idValues lists every _id form an id may be stored under. Documents created
// by this service use uuid strings; older ones carry ObjectIds.
func idValues(ids ...string) bson.A {
	out := make(bson.A, 0, len(ids))
	for _, id := range ids {
		out = append(out, id)
		if oid, err := primitive.ObjectIDFromHex(id); err == nil {
			out = append(out, oid)
		}
	}
	return out
}

func idFilter(id string) any {
	vs := idValues(id)
	if len(vs) == 1 {
		return id
	}
	return bson.M{"$in": vs}
}

// toBSON maps the store-neutral filter onto a mongo query document.
func toBSON(f Filter) bson.M {
	q := bson.M{}
	for k, v := range f {
		if k == "id" {
			switch id := v.(type) {
			case string:
				q["_id"] = idFilter(id)
			case []string:
				q["_id"] = bson.M{"$in": idValues(id...)}
			default:
				q["_id"] = v
			}
			continue
		}
		if vs, ok := v.([]string); ok {
			q[k] = bson.M{"$in": vs}
			continue
		}
		q[k] = v
	}
	return q
}

func (c mongoCollection[T]) List(ctx context.Context, f Filter) ([]T, error) {
	cur, err := c.coll.Find(ctx, toBSON(f))
	if err != nil {
		return nil, err
	}
	items := make([]T, 0)
	if err := cur.All(ctx, &items); err != nil {
		return nil, err
	}
	return items, nil
}

func (c mongoCollection[T]) FindOne(ctx context.Context, f Filter) (*T, error) {
	var doc T
	if err := c.coll.FindOne(ctx, toBSON(f)).Decode(&doc); err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return nil, ErrNotFound
		}
		return nil, err
	}
	return &doc, nil
}

func (c mongoCollection[T]) Get(ctx context.Context, id string) (*T, error) {
	return c.FindOne(ctx, Filter{"id": id})
}

func (c mongoCollection[T]) Insert(ctx context.Context, doc *T) (string, error) {
	id := ensureID(doc)
	if _, err := c.coll.InsertOne(ctx, doc); err != nil {
		if mongo.IsDuplicateKeyError(err) {
			return "", fmt.Errorf("%w: %v", ErrDuplicate, err)
		}
		return "", err
	}
	return id, nil
}

func (c mongoCollection[T]) Update(ctx context.Context, id string, fields map[string]any) (UpdateResult, error) {
	res, err := c.coll.UpdateOne(ctx, bson.M{"_id": idFilter(id)}, bson.M{"$set": bson.M(fields)})
	if err != nil {
		return UpdateResult{}, err
	}
	return UpdateResult{Matched: res.MatchedCount, Modified: res.ModifiedCount}, nil
}

func (c mongoCollection[T]) Delete(ctx context.Context, id string) (int64, error) {
	res, err := c.coll.DeleteOne(ctx, bson.M{"_id": idFilter(id)})
	if err != nil {
		return 0, err
	}
	return res.DeletedCount, nil
}

func (c mongoCollection[T]) DeleteMany(ctx context.Context, f Filter) (int64, error) {
	if len(f) == 0 {
		return 0, ErrEmptyFilter
	}
	res, err := c.coll.DeleteMany(ctx, toBSON(f))
	if err != nil {
		return 0, err
	}
	return res.DeletedCount, nil
}
