package questions

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/wricardo/trivia-maze/game/engine"
	"gopkg.in/yaml.v3"
)

// BankFile is the on-disk layout of a question bank. JSON files parse too,
// since JSON is valid YAML.
type BankFile struct {
	Name        string   `yaml:"name" json:"name"`
	Description string   `yaml:"description,omitempty" json:"description,omitempty"`
	Questions   []Record `yaml:"questions" json:"questions"`
}

// ParseBankFile decodes bank file contents and normalizes every record
func ParseBankFile(data []byte) (*BankFile, error) {
	var file BankFile
	if err := yaml.Unmarshal(data, &file); err != nil {
		return nil, fmt.Errorf("failed to parse question bank: %w", err)
	}
	for i := range file.Questions {
		file.Questions[i].Normalize()
	}
	return &file, nil
}

// LoadBankFile reads a question bank from disk. A bank without a name is
// named after its file.
func LoadBankFile(path string) (*BankFile, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}
	file, err := ParseBankFile(data)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", path, err)
	}
	if file.Name == "" {
		file.Name = strings.TrimSuffix(filepath.Base(path), filepath.Ext(path))
	}
	return file, nil
}

// Bank builds a fresh Bank from the file's records
func (f *BankFile) Bank(rng engine.RandomSource, kinds ...engine.QuestionKind) (*Bank, error) {
	return NewBank(f.Name, f.Questions, rng, kinds...)
}

// WriteBankFile saves a bank file as YAML
func WriteBankFile(path string, file *BankFile) error {
	data, err := yaml.Marshal(file)
	if err != nil {
		return fmt.Errorf("failed to encode question bank: %w", err)
	}
	return os.WriteFile(path, data, 0644)
}
