package atoms

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"strings"

	"github.com/BurntSushi/toml"
	"github.com/velichkin/persona/internal/domain"
	"github.com/velichkin/persona/internal/engine"
)

// Ошибки валидации определений.
var (
	// ErrUnknownAtomKind — вид атома не входит в trait/skill/experience/stack.
	ErrUnknownAtomKind = errors.New("unknown atom kind")

	// ErrEmptyKey — атом или quirk без ключа.
	ErrEmptyKey = errors.New("empty key")

	// ErrDuplicateTarget — два атома определяют один target.
	ErrDuplicateTarget = errors.New("duplicate atom target")

	// ErrQuirkWithoutConditions — quirk без единого условия.
	ErrQuirkWithoutConditions = errors.New("quirk has no conditions")
)

// DefinitionError — ошибка в файле определений с контекстом.
type DefinitionError struct {
	// File — путь к файлу.
	File string

	// Subject — атом/quirk/фраза, где найдена проблема.
	Subject string

	// Message — описание проблемы.
	Message string

	// Err — базовая ошибка.
	Err error
}

// Error реализует интерфейс error.
func (e *DefinitionError) Error() string {
	if e.Subject != "" {
		return e.File + ": " + e.Subject + ": " + e.Message
	}
	return e.File + ": " + e.Message
}

// Unwrap возвращает базовую ошибку.
func (e *DefinitionError) Unwrap() error {
	return e.Err
}

// definitionFile — структура одного TOML файла определений.
type definitionFile struct {
	Atoms   []domain.Atom      `toml:"atom"`
	Quirks  []domain.QuirkDef  `toml:"quirk"`
	Phrases []domain.PhraseDef `toml:"phrase"`
}

// LoadDir загружает все *.toml файлы каталога в один AtomSet.
func LoadDir(dir string) (*domain.AtomSet, error) {
	entries, err := os.ReadDir(dir)
	if err != nil {
		return nil, fmt.Errorf("read definitions dir: %w", err)
	}

	var files []string
	for _, entry := range entries {
		if entry.IsDir() || !strings.HasSuffix(entry.Name(), ".toml") {
			continue
		}
		files = append(files, filepath.Join(dir, entry.Name()))
	}
	sort.Strings(files)

	set := &domain.AtomSet{}
	seen := make(map[string]string) // target → файл первого определения

	for _, file := range files {
		data, err := os.ReadFile(file)
		if err != nil {
			return nil, fmt.Errorf("read %s: %w", file, err)
		}
		if err := appendDefinitions(set, seen, file, data); err != nil {
			return nil, err
		}
	}

	return set, nil
}

// Load разбирает определения из одного блока данных.
// Используется тестами и валидацией одиночного файла в CLI.
func Load(name string, data []byte) (*domain.AtomSet, error) {
	set := &domain.AtomSet{}
	if err := appendDefinitions(set, make(map[string]string), name, data); err != nil {
		return nil, err
	}
	return set, nil
}

// appendDefinitions декодирует файл и дописывает его содержимое в set.
func appendDefinitions(set *domain.AtomSet, seen map[string]string, file string, data []byte) error {
	var def definitionFile
	if err := toml.Unmarshal(data, &def); err != nil {
		return &DefinitionError{File: file, Message: "decode toml: " + err.Error(), Err: err}
	}

	for i := range def.Atoms {
		atom := &def.Atoms[i]
		if err := validateAtom(file, atom); err != nil {
			return err
		}

		target := atom.Target()
		if firstFile, dup := seen[target]; dup {
			return &DefinitionError{
				File:    file,
				Subject: target,
				Message: "already defined in " + firstFile,
				Err:     ErrDuplicateTarget,
			}
		}
		seen[target] = file

		set.Atoms = append(set.Atoms, *atom)
	}

	for i := range def.Quirks {
		quirk := &def.Quirks[i]
		if err := validateQuirk(file, quirk); err != nil {
			return err
		}
		set.Quirks = append(set.Quirks, *quirk)
	}

	for i := range def.Phrases {
		phrase := &def.Phrases[i]
		if err := validatePhrase(file, phrase); err != nil {
			return err
		}
		set.Phrases = append(set.Phrases, *phrase)
	}

	return nil
}

// validateAtom проверяет структуру атома и разбираемость его правил.
func validateAtom(file string, atom *domain.Atom) error {
	if !atom.Kind.Valid() {
		return &DefinitionError{
			File:    file,
			Subject: string(atom.Kind) + "." + atom.Key,
			Message: fmt.Sprintf("unknown atom kind %q", atom.Kind),
			Err:     ErrUnknownAtomKind,
		}
	}
	if atom.Key == "" {
		return &DefinitionError{
			File:    file,
			Subject: string(atom.Kind),
			Message: "atom has empty key",
			Err:     ErrEmptyKey,
		}
	}

	for _, raw := range atom.Rules {
		if _, err := engine.NewRule(atom.Target(), raw); err != nil {
			return &DefinitionError{
				File:    file,
				Subject: atom.Target(),
				Message: "bad rule: " + err.Error(),
				Err:     err,
			}
		}
	}

	return nil
}

// validateQuirk проверяет структуру quirk'а.
// Выражения условий не разбираются здесь намеренно: условие с ошибкой
// просто никогда не сработает (EvaluateCondition вернёт false).
func validateQuirk(file string, quirk *domain.QuirkDef) error {
	if quirk.Key == "" {
		return &DefinitionError{
			File:    file,
			Subject: "quirk",
			Message: "quirk has empty key",
			Err:     ErrEmptyKey,
		}
	}
	if len(quirk.AnyOf) == 0 && len(quirk.AllOf) == 0 {
		return &DefinitionError{
			File:    file,
			Subject: quirk.Key,
			Message: "quirk needs any_of or all_of",
			Err:     ErrQuirkWithoutConditions,
		}
	}
	return nil
}

// validatePhrase проверяет структуру фразы.
func validatePhrase(file string, phrase *domain.PhraseDef) error {
	if phrase.Text == "" {
		return &DefinitionError{
			File:    file,
			Subject: "phrase",
			Message: "phrase has empty text",
			Err:     ErrEmptyKey,
		}
	}
	return nil
}
