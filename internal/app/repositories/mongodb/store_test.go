package mongodb

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"go.mongodb.org/mongo-driver/bson"
)

func TestContainsRegexEscapesInput(t *testing.T) {
	m := containsRegex("c++ (intro)")
	assert.Equal(t, `c\+\+ \(intro\)`, m["$regex"])
	assert.Equal(t, "i", m["$options"])
}

func TestToggleInArrayShape(t *testing.T) {
	p := toggleInArray("likes", "u1")
	assert.Len(t, p, 1)

	raw, err := bson.Marshal(p[0])
	assert.NoError(t, err)

	var stage bson.M
	assert.NoError(t, bson.Unmarshal(raw, &stage))
	set, ok := stage["$set"].(bson.M)
	assert.True(t, ok)
	assert.Contains(t, set, "likes")
}
