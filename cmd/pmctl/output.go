package main

import (
	"encoding/json"
	"fmt"
)

// printResult renders v as pretty JSON when json is true, otherwise
// delegates to human, the caller-supplied plain-text renderer.
func printResult(jsonMode bool, v interface{}, human func()) error {
	if jsonMode {
		data, err := json.MarshalIndent(v, "", "  ")
		if err != nil {
			return fmt.Errorf("pmctl: encode result: %w", err)
		}
		fmt.Println(string(data))
		return nil
	}
	human()
	return nil
}
