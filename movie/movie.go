package movie

import (
	"encoding/json"

	"moviedex/errs"
)

// Wire names of the fields every movie record must carry.
const (
	FieldTitle   = "title"
	FieldGenre   = "genre"
	FieldCountry = "country"
	FieldAvgVote = "avg_vote"
)

var ErrEmptyDataset = errs.Errorf(errs.EINVALID, "movie: dataset is empty")

// Movie is one record of the dataset. The four typed fields are the ones
// the search filters on; every other field of the source entry is kept
// verbatim in Extra and written back out next to them.
//
// Extra is shared between copies of a Movie and must be treated as read-only.
type Movie struct {
	Title   string
	Genre   string
	Country string
	AvgVote float64
	Extra   map[string]json.RawMessage
}

func (m Movie) MarshalJSON() ([]byte, error) {
	out := make(map[string]interface{}, len(m.Extra)+4)
	for k, v := range m.Extra {
		out[k] = v
	}
	out[FieldTitle] = m.Title
	out[FieldGenre] = m.Genre
	out[FieldCountry] = m.Country
	out[FieldAvgVote] = m.AvgVote
	return json.Marshal(out)
}

func (m *Movie) UnmarshalJSON(data []byte) error {
	var raw map[string]json.RawMessage
	if err := json.Unmarshal(data, &raw); err != nil {
		return errs.Errorf(errs.EINVALID, "movie: record is not an object: %v", err)
	}

	var out Movie
	fields := []struct {
		name string
		dst  interface{}
	}{
		{FieldTitle, &out.Title},
		{FieldGenre, &out.Genre},
		{FieldCountry, &out.Country},
		{FieldAvgVote, &out.AvgVote},
	}
	for _, f := range fields {
		v, ok := raw[f.name]
		if !ok {
			return errs.Errorf(errs.EINVALID, "movie: missing field %q", f.name)
		}
		if err := json.Unmarshal(v, f.dst); err != nil {
			return errs.Errorf(errs.EINVALID, "movie: invalid field %q: %v", f.name, err)
		}
		delete(raw, f.name)
	}

	if len(raw) > 0 {
		out.Extra = raw
	}
	*m = out
	return nil
}
