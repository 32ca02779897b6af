package util

import (
	"encoding/json"
	"os"
	"path/filepath"
)

// SaveJson writes data as indented JSON to path, creating the parent directory
// if it does not exist yet.
func SaveJson(path string, data interface{}) error {
	if dir := filepath.Dir(path); dir != "" {
		if err := os.MkdirAll(dir, 0755); err != nil {
			return err
		}
	}

	file, err := os.Create(path)
	if err != nil {
		return err
	}
	defer file.Close()

	bs, err := json.MarshalIndent(data, "", "  ")
	if err != nil {
		return err
	}

	_, err = file.Write(bs)
	return err
}

func LoadJson(path string, data interface{}) error {
	bs, err := os.ReadFile(path)
	if err != nil {
		return err
	}
	return json.Unmarshal(bs, data)
}
