package types

import (
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type checkIn struct {
	CategoryID string `json:"categoryId"`
	Day        Day    `json:"day"`
}

func TestFlexListSingleObject(t *testing.T) {
	var list FlexList[checkIn]
	require.NoError(t, json.Unmarshal([]byte(` {"categoryId":"c1","day":"2026-05-01"}`), &list))

	require.Len(t, list, 1)
	assert.Equal(t, "c1", list[0].CategoryID)
	assert.Equal(t, Day("2026-05-01"), list[0].Day)
}

func TestFlexListArray(t *testing.T) {
	var list FlexList[checkIn]
	require.NoError(t, json.Unmarshal([]byte(`
	[{"categoryId":"c1"},{"categoryId":"c2"}]`), &list))

	assert.Equal(t, []checkIn{{CategoryID: "c1"}, {CategoryID: "c2"}}, list.Slice())
}

func TestFlexListNullAndGarbage(t *testing.T) {
	list := FlexList[checkIn]{{CategoryID: "stale"}}
	require.NoError(t, json.Unmarshal([]byte(`null`), &list))
	assert.Nil(t, list.Slice())

	assert.Error(t, json.Unmarshal([]byte(`"c1"`), &list))
}
