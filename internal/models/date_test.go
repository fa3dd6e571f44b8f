package models

import (
	"encoding/json"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestDateJSON(t *testing.T) {
	var upd ProfileUpdate
	require.NoError(t, json.Unmarshal([]byte(`{"birth_date":"1990-05-01"}`), &upd))
	require.NotNil(t, upd.BirthDate)
	assert.Equal(t, NewDate(1990, time.May, 1), *upd.BirthDate)

	out, err := json.Marshal(User{Username: "alice", BirthDate: upd.BirthDate})
	require.NoError(t, err)
	assert.Contains(t, string(out), `"birth_date":"1990-05-01"`)

	upd = ProfileUpdate{}
	require.NoError(t, json.Unmarshal([]byte(`{"birth_date":null}`), &upd))
	assert.Nil(t, upd.BirthDate)

	assert.Error(t, json.Unmarshal([]byte(`{"birth_date":"01/05/1990"}`), &upd))
}

func TestDateScan(t *testing.T) {
	want := NewDate(1990, time.May, 1)
	tests := []struct {
		name string
		src  any
	}{
		{"time", time.Date(1990, time.May, 1, 0, 0, 0, 0, time.UTC)},
		{"time with offset", time.Date(1990, time.May, 1, 0, 0, 0, 0, time.FixedZone("x", 3*3600))},
		{"text", "1990-05-01"},
		{"sqlite text", "1990-05-01 00:00:00+00:00"},
		{"bytes", []byte("1990-05-01")},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			var d Date
			require.NoError(t, d.Scan(tt.src))
			assert.Equal(t, want, d)
		})
	}

	var d Date
	assert.Error(t, d.Scan(42))
	assert.Error(t, d.Scan("1990"))
}
