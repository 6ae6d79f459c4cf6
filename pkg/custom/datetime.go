package custom

import (
	"database/sql/driver"
	"fmt"
	"regexp"
	"time"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/bsontype"
)

// Datetime represents a UTC datetime. It is stored as an RFC3339 string in MongoDB and as a datetime column in SQL
// databases.
type Datetime time.Time

// Now returns the current time as a Datetime, truncated to the second.
func Now() Datetime {
	return Datetime(time.Now().UTC().Truncate(time.Second))
}

// Time returns the underlying time in UTC.
func (d Datetime) Time() time.Time {
	return time.Time(d).UTC()
}

// IsZero reports whether the datetime is unset.
func (d Datetime) IsZero() bool {
	return time.Time(d).IsZero()
}

// MarshalJSON implements the json.Marshaler interface.
func (d *Datetime) MarshalJSON() ([]byte, error) {
	if d == nil || time.Time(*d).IsZero() {
		return []byte("null"), nil
	}
	return []byte(fmt.Sprintf(`%q`, time.Time(*d).UTC().Format(time.RFC3339))), nil
}

// MarshalBSONValue implements the bson.ValueMarshaler interface.
func (d Datetime) MarshalBSONValue() (bsontype.Type, []byte, error) {
	if time.Time(d).IsZero() {
		return bson.TypeNull, nil, nil
	}
	return bson.MarshalValue(time.Time(d).UTC().Format(time.RFC3339))
}

// UnmarshalJSON implements the json.Unmarshaler interface.
func (d *Datetime) UnmarshalJSON(text []byte) error {
	// Remove " from text if present with regex (e.g. "2020-01-01T00:00:00Z" -> 2020-01-01T00:00:00Z)
	reg := regexp.MustCompile(`"(.*)"`)
	text = reg.ReplaceAll(text, []byte("$1"))

	if string(text) == "null" || len(text) == 0 {
		*d = Datetime{}
		return nil
	}

	t, err := time.Parse(time.RFC3339, string(text))
	if err != nil {
		return err
	}
	*d = Datetime(t.UTC())
	return nil
}

// UnmarshalBSONValue implements the bson.ValueUnmarshaler interface. Strings and native BSON datetimes are accepted.
func (d *Datetime) UnmarshalBSONValue(t bsontype.Type, data []byte) error {
	raw := bson.RawValue{Type: t, Value: data}

	switch t {
	case bson.TypeNull, bson.TypeUndefined:
		*d = Datetime{}
		return nil
	case bson.TypeString:
		str, ok := raw.StringValueOK()
		if !ok {
			return fmt.Errorf("invalid datetime string value")
		}
		parsed, err := time.Parse(time.RFC3339, str)
		if err != nil {
			return fmt.Errorf("invalid datetime: %s", str)
		}
		*d = Datetime(parsed.UTC())
		return nil
	case bson.TypeDateTime:
		parsed, ok := raw.TimeOK()
		if !ok {
			return fmt.Errorf("invalid datetime value")
		}
		*d = Datetime(parsed.UTC())
		return nil
	default:
		return fmt.Errorf("invalid bson type %s for %T", t, d)
	}
}

// GormDataType tells GORM which column type to use.
func (Datetime) GormDataType() string {
	return "datetime"
}

// Value implements the driver.Valuer interface.
func (d Datetime) Value() (driver.Value, error) {
	if time.Time(d).IsZero() {
		return nil, nil
	}
	return time.Time(d).UTC(), nil
}

// Scan implements the sql.Scanner interface.
func (d *Datetime) Scan(src any) error {
	switch v := src.(type) {
	case nil:
		*d = Datetime{}
	case time.Time:
		*d = Datetime(v.UTC())
	case string:
		return d.scanString(v)
	case []byte:
		return d.scanString(string(v))
	default:
		return fmt.Errorf("invalid scan, type %T not supported for %T", src, d)
	}
	return nil
}

func (d *Datetime) scanString(s string) error {
	for _, layout := range []string{time.RFC3339Nano, "2006-01-02 15:04:05.999999999-07:00", "2006-01-02 15:04:05"} {
		if t, err := time.Parse(layout, s); err == nil {
			*d = Datetime(t.UTC())
			return nil
		}
	}
	return fmt.Errorf("invalid datetime: %s", s)
}

// String implements the fmt.Stringer interface.
func (d Datetime) String() string {
	return time.Time(d).UTC().Format(time.RFC3339)
}
