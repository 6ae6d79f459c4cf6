package custom

import (
	"encoding/json"
	"testing"
	"time"

	"github.com/stretchr/testify/require"
	"go.mongodb.org/mongo-driver/bson"
)

func TestDatetime_BSON(t *testing.T) {
	type doc struct {
		CreatedAt Datetime `bson:"created_at"`
	}

	want := Datetime(time.Date(2024, 3, 1, 12, 30, 0, 0, time.UTC))

	raw, err := bson.Marshal(doc{CreatedAt: want})
	require.NoError(t, err)

	// Stored as an RFC3339 string.
	require.Equal(t, "2024-03-01T12:30:00Z", bson.Raw(raw).Lookup("created_at").StringValue())

	got := new(doc)
	require.NoError(t, bson.Unmarshal(raw, got))
	require.True(t, want.Time().Equal(got.CreatedAt.Time()))
}

func TestDatetime_BSONNativeDate(t *testing.T) {
	want := time.Date(2023, 12, 24, 8, 0, 0, 0, time.UTC)

	raw, err := bson.Marshal(bson.M{"created_at": want})
	require.NoError(t, err)

	got := new(struct {
		CreatedAt Datetime `bson:"created_at"`
	})
	require.NoError(t, bson.Unmarshal(raw, got))
	require.True(t, want.Equal(got.CreatedAt.Time()))
}

func TestDatetime_JSON(t *testing.T) {
	d := Datetime(time.Date(2024, 3, 1, 12, 30, 0, 0, time.UTC))

	b, err := json.Marshal(&d)
	require.NoError(t, err)
	require.Equal(t, `"2024-03-01T12:30:00Z"`, string(b))

	var got Datetime
	require.NoError(t, json.Unmarshal(b, &got))
	require.Equal(t, d.String(), got.String())
}

func TestDatetime_Scan(t *testing.T) {
	want := time.Date(2024, 3, 1, 12, 30, 0, 0, time.UTC)

	tests := []struct {
		name    string
		src     any
		wantErr bool
	}{
		{name: "time", src: want},
		{name: "rfc3339 string", src: "2024-03-01T12:30:00Z"},
		{name: "sqlite string", src: []byte("2024-03-01 12:30:00")},
		{name: "unsupported", src: 42, wantErr: true},
		{name: "garbage", src: "yesterday", wantErr: true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			var d Datetime
			err := d.Scan(tt.src)
			if tt.wantErr {
				require.Error(t, err)
				return
			}
			require.NoError(t, err)
			require.True(t, want.Equal(d.Time()))
		})
	}
}
