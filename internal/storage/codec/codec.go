// Package codec converts the user collection to and from the JSON document
// shared by the snapshot backends.
package codec

import (
	"fmt"

	"github.com/goccy/go-json"

	"github.com/dtroode/userkeeper-server/internal/model"
)

const indent = "    "

// Encode renders users as a JSON array indented with four spaces.
// A nil collection is encoded as an empty array.
func Encode(users []model.User) ([]byte, error) {
	if users == nil {
		users = []model.User{}
	}
	data, err := json.MarshalIndent(users, "", indent)
	if err != nil {
		return nil, fmt.Errorf("failed to encode users: %w", err)
	}
	return data, nil
}

// record mirrors model.User with every field required.
type record struct {
	ID    *int    `json:"id"`
	Name  *string `json:"name"`
	Email *string `json:"email"`
}

// Decode parses a JSON array of users. Every element must carry id, name and
// email.
func Decode(data []byte) ([]model.User, error) {
	var records []record
	if err := json.Unmarshal(data, &records); err != nil {
		return nil, fmt.Errorf("failed to decode users: %w", err)
	}

	users := make([]model.User, 0, len(records))
	for i, r := range records {
		if r.ID == nil || r.Name == nil || r.Email == nil {
			return nil, fmt.Errorf("failed to decode users: record %d: missing field", i)
		}
		users = append(users, model.User{ID: *r.ID, Name: *r.Name, Email: *r.Email})
	}
	return users, nil
}

// DecodeOrEmpty parses data and falls back to an empty collection when it is
// not a valid user list. The second result reports whether the fallback was
// taken.
func DecodeOrEmpty(data []byte) ([]model.User, bool) {
	users, err := Decode(data)
	if err != nil {
		return []model.User{}, true
	}
	return users, false
}
