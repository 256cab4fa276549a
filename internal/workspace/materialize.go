package workspace

import (
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"strings"

	"github.com/velichkin/persona/internal/domain"
)

// PersonaFileName — имя файла с материализованным профилем
// в корне workspace.
const PersonaFileName = "PERSONA.md"

// Materialize рендерит профиль привязанной персоны в PERSONA.md
// внутри каталога workspace. Запись атомарная: tmp-файл + rename.
func Materialize(ws *domain.Workspace, person *domain.Person, profile *domain.Profile) error {
	if !ws.Bound() {
		return ErrNotBound
	}

	content := Render(person, profile)
	target := filepath.Join(ws.Path, PersonaFileName)

	tmp, err := os.CreateTemp(ws.Path, ".persona-*")
	if err != nil {
		return fmt.Errorf("create temp file: %w", err)
	}
	tmpName := tmp.Name()

	if _, err := tmp.WriteString(content); err != nil {
		tmp.Close()
		os.Remove(tmpName)
		return fmt.Errorf("write persona file: %w", err)
	}
	if err := tmp.Close(); err != nil {
		os.Remove(tmpName)
		return fmt.Errorf("close persona file: %w", err)
	}

	if err := os.Rename(tmpName, target); err != nil {
		os.Remove(tmpName)
		return fmt.Errorf("rename persona file: %w", err)
	}

	return nil
}

// Render собирает markdown-представление профиля.
// Значения внутри секций отсортированы по ключу — файл стабилен
// между пересчётами с одинаковым результатом.
func Render(person *domain.Person, profile *domain.Profile) string {
	var b strings.Builder

	fmt.Fprintf(&b, "# %s\n\n", person.Name)
	if person.Description != "" {
		fmt.Fprintf(&b, "%s\n\n", person.Description)
	}

	renderSection(&b, "Traits", profile.Traits)
	renderSection(&b, "Skills", profile.Skills)
	renderSection(&b, "Experience", profile.Experience)
	renderSection(&b, "Stacks", profile.Stacks)

	if len(profile.Quirks) > 0 {
		b.WriteString("## Quirks\n\n")
		for _, q := range profile.Quirks {
			fmt.Fprintf(&b, "- %s\n", q)
		}
		b.WriteString("\n")
	}

	if len(profile.Phrases) > 0 {
		b.WriteString("## Phrases\n\n")
		for _, p := range profile.Phrases {
			fmt.Fprintf(&b, "- %q\n", p)
		}
		b.WriteString("\n")
	}

	fmt.Fprintf(&b, "---\ncomputed at %s\n", profile.ComputedAt.Format("2006-01-02 15:04:05 UTC"))

	return b.String()
}

func renderSection(b *strings.Builder, title string, values map[string]float64) {
	if len(values) == 0 {
		return
	}

	keys := make([]string, 0, len(values))
	for k := range values {
		keys = append(keys, k)
	}
	sort.Strings(keys)

	fmt.Fprintf(b, "## %s\n\n", title)
	for _, k := range keys {
		fmt.Fprintf(b, "- %s: %.1f\n", k, values[k])
	}
	b.WriteString("\n")
}
