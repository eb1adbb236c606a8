package mongodata

import (
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestGetModelName(t *testing.T) {
	assert.Equal(t, "", GetModelName(map[string]string{}))
	assert.Equal(t, "name_ll", GetModelName("NameLL"))
	assert.Equal(t, "", GetModelName(nil))

	type ImmP struct {
		M int
	}
	var mmm ImmP
	assert.Equal(t, "imm_p", GetModelName(mmm))
	assert.Equal(t, "imm_p", GetModelName(&mmm))

	var nilPtr *ImmP
	assert.Equal(t, "", GetModelName(nilPtr))
}

func TestGetID(t *testing.T) {
	type User struct {
		Name       string `json:"name" bson:"_id,omitempty"`
		Age        int64  `json:"age" bson:"age,omitempty"`
		OrderCount int64  `json:"order_count" bson:"order_count,omitempty"`
	}

	type Parent struct {
		*User `json:"user"`
	}

	type Book struct {
		No   string `db:"pk"`
		Name string
	}

	assert.Equal(t, "liran", GetID(&User{Name: "liran", Age: 132}))
	assert.Equal(t, "liran", GetID(&Parent{User: &User{Name: "liran", Age: 132}}))
	assert.Nil(t, GetID(&Parent{}))
	assert.Equal(t, "b-1", GetID(Book{No: "b-1"}))
	assert.Equal(t, "1", GetID(Map().Set("_id", "1")))
	assert.Equal(t, 2, GetID(map[string]any{"_id": 2}))
	assert.Nil(t, GetID("plain"))
}

func TestMap(t *testing.T) {
	m := Map().Set("a", 1).Set("b", "two")

	v, ok := m.Get("a")
	require.True(t, ok)
	assert.Equal(t, 1, v)

	_, ok = m.Get("c")
	assert.False(t, ok)

	assert.Equal(t, M{"_id": "x"}, GetIdFilter("x"))
}

func TestSequentialID(t *testing.T) {
	prev := ""
	for i := 0; i < 10; i++ {
		id := SequentialID()
		parsed, err := uuid.Parse(id)
		require.NoError(t, err)
		assert.Equal(t, uuid.Version(7), parsed.Version())
		assert.Greater(t, id, prev)
		prev = id
	}
}

func TestToEntity(t *testing.T) {
	type User struct {
		ID   string `bson:"_id"`
		Name string `bson:"name"`
		Age  int64  `bson:"age"`
	}

	u := ToEntity[User](Map().Set("_id", "1").Set("name", "liran").Set("age", int64(3)))
	assert.Equal(t, &User{ID: "1", Name: "liran", Age: 3}, u)

	users := ToEntities[User]([]M{{"_id": "1"}, {"_id": "2"}})
	require.Len(t, users, 2)
	assert.Equal(t, "2", users[1].ID)
}

func TestPointer(t *testing.T) {
	now := time.Now()
	assert.Equal(t, now, *Pointer(now))
}

func TestDatabaseName(t *testing.T) {
	name, err := databaseName("app")
	require.NoError(t, err)
	assert.Equal(t, "app", name)

	name, err = databaseName("mongodb://localhost:27017/orders?directConnection=true")
	require.NoError(t, err)
	assert.Equal(t, "orders", name)

	name, err = databaseName("mongodb+srv://cluster0.example.invalid/orders")
	require.NoError(t, err)
	assert.Equal(t, "orders", name)

	name, err = databaseName("mongodb://u%2Fser:pw@a:27017,b/sales%2D2024?replicaSet=rs0")
	require.NoError(t, err)
	assert.Equal(t, "sales-2024", name)

	_, err = databaseName("mongodb://localhost:27017")
	require.Error(t, err)

	_, err = databaseName("mongodb+srv://cluster0.example.invalid/?retryWrites=true")
	require.Error(t, err)
}

func TestParseTLSConfig_Invalid(t *testing.T) {
	_, err := ParseTLSConfig([]byte("not a pem"))
	require.Error(t, err)
}
