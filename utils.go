package mongodata

import (
	"reflect"
	"strings"

	"github.com/google/uuid"
	"github.com/iancoleman/strcase"
	"go.mongodb.org/mongo-driver/bson"
)

type M map[string]any

func Map() M {
	return M{}
}

func (m M) Set(key string, value any) M {
	m[key] = value
	return m
}

func (m M) Get(key string) (any, bool) {
	v, ok := m[key]
	return v, ok
}

// GetModelName returns the collection name for a struct (or pointer to one), or the
// snake_case form of a string.
func GetModelName(model any) string {
	if s, ok := model.(string); ok {
		return ToSnake(s)
	}

	modelVal, ok := indirectStruct(reflect.ValueOf(model))
	if !ok {
		return ""
	}
	return ToSnake(modelVal.Type().Name())
}

func ToSnake(text string) string {
	return strcase.ToSnakeWithIgnore(text, ".")
}

func GetIdFilter(id any) M {
	return M{"_id": id}
}

func Pointer[T any](v T) *T {
	return &v
}

// SequentialID returns a time ordered UUIDv7 string.
func SequentialID() string {
	return uuid.Must(uuid.NewV7()).String()
}

// GetID reads "_id" from a map, or from a struct field tagged bson:"_id" or db:"pk".
// Embedded structs are searched too.
func GetID(model any) any {
	switch v := model.(type) {
	case M:
		return v["_id"]
	case map[string]any:
		return v["_id"]
	case bson.M:
		return v["_id"]
	}

	modelVal, ok := indirectStruct(reflect.ValueOf(model))
	if !ok {
		return nil
	}
	return structID(modelVal)
}

func structID(modelVal reflect.Value) any {
	modelType := modelVal.Type()
	for i := 0; i < modelType.NumField(); i++ {
		field := modelType.Field(i)
		if !field.IsExported() {
			continue
		}

		if isIDField(field) {
			return modelVal.Field(i).Interface()
		}

		if field.Anonymous {
			if embedded, ok := indirectStruct(modelVal.Field(i)); ok {
				if id := structID(embedded); id != nil {
					return id
				}
			}
		}
	}
	return nil
}

func isIDField(field reflect.StructField) bool {
	if name, _, _ := strings.Cut(field.Tag.Get("bson"), ","); name == "_id" {
		return true
	}

	for _, v := range strings.Split(strings.Trim(field.Tag.Get("db"), ", ;"), ",") {
		if v == "pk" {
			return true
		}
	}
	return false
}

func indirectStruct(v reflect.Value) (reflect.Value, bool) {
	for v.Kind() == reflect.Pointer || v.Kind() == reflect.Interface {
		if v.IsNil() {
			return reflect.Value{}, false
		}
		v = v.Elem()
	}
	return v, v.Kind() == reflect.Struct
}

// ToEntity decodes a document into T through bson.
func ToEntity[T any](doc M) *T {
	o := new(T)
	raw, err := bson.Marshal(doc)
	if err != nil {
		panic(err)
	}
	if err := bson.Unmarshal(raw, o); err != nil {
		panic(err)
	}
	return o
}

func ToEntities[T any](docs []M) []*T {
	var os []*T
	for _, v := range docs {
		os = append(os, ToEntity[T](v))
	}
	return os
}
