package r1cs

import (
	"encoding/json"
	"fmt"
	"io"

	"github.com/consensys/gnark-crypto/ecc/bn254/fr"

	"github.com/laconiczk/laconic"
)

// WriteAssignment serializes an assignment vector to w as human readable
// JSON: an array of hexadecimal strings, position i holding variable i.
func WriteAssignment(w io.Writer, assignment []fr.Element) error {
	encoder := json.NewEncoder(w)
	encoder.SetIndent("", "    ")

	toWrite := make([]string, len(assignment))
	for i := range assignment {
		toWrite[i] = "0x" + assignment[i].Text(16)
	}
	return encoder.Encode(toWrite)
}

// ReadAssignment deserializes an assignment vector written by
// WriteAssignment. Values can be in base 10, or in base 16 with a 0x prefix.
func ReadAssignment(r io.Reader) ([]fr.Element, error) {
	decoder := json.NewDecoder(r)

	var toRead []string
	if err := decoder.Decode(&toRead); err != nil {
		return nil, err
	}

	assignment := make([]fr.Element, len(toRead))
	for i, v := range toRead {
		if _, err := assignment[i].SetString(v); err != nil {
			return nil, fmt.Errorf("%w: could not read value %d: %v", laconic.ErrInvalidWitness, i, err)
		}
	}
	return assignment, nil
}
