package util

import (
	"encoding/json"
	"fmt"
	"io"
)

func Pprint(w io.Writer, i interface{}) error {
	bytes, err := json.MarshalIndent(i, "", "    ")
	if err != nil {
		return fmt.Errorf("failed to marshal output: %w", err)
	}
	_, err = fmt.Fprintln(w, string(bytes))
	return err
}

func FloatPointer(f float64) *float64 {
	return &f
}
