package catalog

import (
	"bytes"
	"encoding/json"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"

	"gopkg.in/yaml.v3"

	"github.com/korjavin/repotrivia/models"
)

// File is the on-disk catalog format. Questions are used as written,
// repositories are expanded with Generate.
type File struct {
	Questions    []models.Question `json:"questions" yaml:"questions"`
	Repositories []models.Repo     `json:"repositories" yaml:"repositories"`
}

// Load reads a JSON or YAML catalog file and returns its questions in order:
// explicit questions first, then generated ones.
func Load(path string) ([]models.Question, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read catalog: %w", err)
	}
	file, err := parse(data, path)
	if err != nil {
		return nil, err
	}

	questions := append([]models.Question(nil), file.Questions...)
	questions = append(questions, Generate(file.Repositories)...)
	return questions, nil
}

func parse(data []byte, path string) (File, error) {
	ext := strings.ToLower(filepath.Ext(path))
	if ext == ".json" {
		return parseJSON(data)
	}
	return parseYAML(data)
}

func parseJSON(data []byte) (File, error) {
	trimmed := bytes.TrimSpace(data)
	// A bare array is a list of questions.
	if len(trimmed) > 0 && trimmed[0] == '[' {
		var questions []models.Question
		if err := json.Unmarshal(trimmed, &questions); err != nil {
			return File{}, fmt.Errorf("parse json: %w", err)
		}
		return File{Questions: questions}, nil
	}

	var file File
	decoder := json.NewDecoder(bytes.NewReader(data))
	decoder.DisallowUnknownFields()
	if err := decoder.Decode(&file); err != nil {
		return File{}, fmt.Errorf("parse json: %w", err)
	}
	if err := decoder.Decode(&struct{}{}); err != io.EOF {
		if err == nil {
			return File{}, fmt.Errorf("parse json: multiple documents are not supported")
		}
		return File{}, fmt.Errorf("parse json: %w", err)
	}
	return file, nil
}

func parseYAML(data []byte) (File, error) {
	var file File
	decoder := yaml.NewDecoder(bytes.NewReader(data))
	decoder.KnownFields(true)
	if err := decoder.Decode(&file); err != nil {
		return File{}, fmt.Errorf("parse yaml: %w", err)
	}
	if err := decoder.Decode(&struct{}{}); err != io.EOF {
		if err == nil {
			return File{}, fmt.Errorf("parse yaml: multiple documents are not supported")
		}
		return File{}, fmt.Errorf("parse yaml: %w", err)
	}
	return file, nil
}
