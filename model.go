package mongodata

import (
	"context"
	"reflect"

	"github.com/pkg/errors"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
)

// Collection is the part of *mongo.Collection a Model uses.
type Collection interface {
	ReplaceOne(ctx context.Context, filter, replacement any, opts ...*options.ReplaceOptions) (*mongo.UpdateResult, error)
	DeleteOne(ctx context.Context, filter any, opts ...*options.DeleteOptions) (*mongo.DeleteResult, error)
	UpdateByID(ctx context.Context, id, update any, opts ...*options.UpdateOptions) (*mongo.UpdateResult, error)
	FindOne(ctx context.Context, filter any, opts ...*options.FindOneOptions) *mongo.SingleResult
	FindOneAndUpdate(ctx context.Context, filter, update any, opts ...*options.FindOneAndUpdateOptions) *mongo.SingleResult
	Find(ctx context.Context, filter any, opts ...*options.FindOptions) (*mongo.Cursor, error)
	CountDocuments(ctx context.Context, filter any, opts ...*options.CountOptions) (int64, error)
	EstimatedDocumentCount(ctx context.Context, opts ...*options.EstimatedDocumentCountOptions) (int64, error)
}

// Model is a collection of a DataContext. Each operation looks up the context's
// session when it runs, so a model built before BeginTransaction still writes inside
// the transaction, and one used after EndTransaction no longer does.
type Model struct {
	ctx  context.Context
	dc   *DataContext
	coll Collection
}

// Model returns the collection for model: a struct, a pointer to one, or a name.
func (dc *DataContext) Model(ctx context.Context, model any) (*Model, error) {
	db, err := dc.Database(ctx)
	if err != nil {
		return nil, err
	}
	return newModel(ctx, dc, db, model)
}

func newModel(ctx context.Context, dc *DataContext, db *Database, model any) (*Model, error) {
	name := GetModelName(model)
	if name == "" {
		return nil, errors.Wrapf(ErrInvalidModelName, "%T", model)
	}
	return &Model{ctx: ctx, dc: dc, coll: db.Collection(name)}, nil
}

func (m *Model) context() context.Context {
	return m.dc.SessionContext(m.ctx)
}

// Set upserts doc by its id.
func (m *Model) Set(doc any) error {
	id := GetID(doc)
	if isEmptyID(id) {
		return ErrNoID
	}

	_, err := m.coll.ReplaceOne(m.context(), GetIdFilter(id), doc, options.Replace().SetUpsert(true))
	return err
}

func (m *Model) Del(id any) error {
	_, err := m.coll.DeleteOne(m.context(), GetIdFilter(id))
	return err
}

// Update sets the fields of update, a struct or map carrying the id, and returns the
// record as it is after the update.
func (m *Model) Update(update any) (M, error) {
	id := GetID(update)
	if isEmptyID(id) {
		return nil, ErrNoID
	}

	fields, err := toMap(update)
	if err != nil {
		return nil, err
	}
	delete(fields, "_id")

	record := Map()
	res := m.coll.FindOneAndUpdate(m.context(), GetIdFilter(id), bson.D{{Key: "$set", Value: fields}},
		options.FindOneAndUpdate().SetReturnDocument(options.After))
	if err := decodeOne(res, &record); err != nil {
		return nil, err
	}
	return record, nil
}

func (m *Model) Inc(id, fields any) error {
	_, err := m.coll.UpdateByID(m.context(), id, bson.D{{Key: "$inc", Value: fields}})
	return err
}

func (m *Model) Get(id any, projection ...any) (M, error) {
	doc := Map()
	if err := m.Unmarshal(id, &doc, projection...); err != nil {
		return nil, err
	}
	return doc, nil
}

// Unmarshal decodes the record with id into v.
func (m *Model) Unmarshal(id, v any, projection ...any) error {
	return decodeOne(m.coll.FindOne(m.context(), GetIdFilter(id), findOneOptions(nil, projection)), v)
}

func (m *Model) First(filter, sort any, projection ...any) (M, error) {
	var doc M
	if err := decodeOne(m.coll.FindOne(m.context(), orAll(filter), findOneOptions(sort, projection)), &doc); err != nil {
		return nil, err
	}
	return doc, nil
}

func (m *Model) Has(id any) (bool, error) {
	n, err := m.coll.CountDocuments(m.context(), GetIdFilter(id), options.Count().SetLimit(1))
	return n > 0, err
}

// Count uses the collection metadata estimate when filter is empty.
func (m *Model) Count(filter any) (int64, error) {
	if isEmptyFilter(filter) {
		return m.coll.EstimatedDocumentCount(m.context())
	}
	return m.coll.CountDocuments(m.context(), filter)
}

// Pagination returns the total matching filter and the page-th page of pageSize
// records. page and pageSize below 1 count as 1.
func (m *Model) Pagination(filter, sort any, page, pageSize int64, projection ...any) (int64, []M, error) {
	total, err := m.Count(filter)
	if err != nil || total < 1 {
		return total, nil, err
	}

	page = max(page, 1)
	pageSize = max(pageSize, 1)

	opt := options.Find().SetSkip((page - 1) * pageSize).SetLimit(pageSize)
	if sort != nil {
		opt.SetSort(sort)
	}
	if len(projection) > 0 {
		opt.SetProjection(projection[0])
	}

	ctx := m.context()
	cur, err := m.coll.Find(ctx, orAll(filter), opt)
	if err != nil {
		return total, nil, err
	}

	var list []M
	if err := cur.All(ctx, &list); err != nil {
		return total, nil, err
	}
	return total, list, nil
}

func decodeOne(res *mongo.SingleResult, v any) error {
	err := res.Decode(v)
	if errors.Is(err, mongo.ErrNoDocuments) {
		return ErrRecordNotFound
	}
	return err
}

func findOneOptions(sort any, projection []any) *options.FindOneOptions {
	opt := options.FindOne()
	if sort != nil {
		opt.SetSort(sort)
	}
	if len(projection) > 0 {
		opt.SetProjection(projection[0])
	}
	return opt
}

func orAll(filter any) any {
	if filter == nil {
		return bson.D{}
	}
	return filter
}

func isEmptyID(id any) bool {
	return id == nil || id == ""
}

func isEmptyFilter(filter any) bool {
	v := reflect.ValueOf(filter)
	switch v.Kind() {
	case reflect.Invalid:
		return true
	case reflect.Map, reflect.Slice, reflect.Array:
		return v.Len() == 0
	}
	return false
}

func toMap(v any) (M, error) {
	raw, err := bson.Marshal(v)
	if err != nil {
		return nil, err
	}
	fields := Map()
	if err := bson.Unmarshal(raw, &fields); err != nil {
		return nil, err
	}
	return fields, nil
}
