package rowkit

import "github.com/google/uuid"

// IDColumn is the column targeted by sql.ByID and filled by an IDGenerator.
const IDColumn = "id"

// IDGenerator returns a new identifier for an inserted record.
type IDGenerator func() any

// UUIDGenerator generates random (version 4) UUIDs in their string form.
func UUIDGenerator() any {
	return uuid.NewString()
}

// withID returns r with a generated id, or r itself when it already has
// one or no generator is set. r is never modified.
func withID(r Record, gen IDGenerator) (Record, any) {
	if id, ok := r[IDColumn]; ok || gen == nil {
		return r, id
	}
	out := make(Record, len(r)+1)
	for k, v := range r {
		out[k] = v
	}
	id := gen()
	out[IDColumn] = id
	return out, id
}
