// Package resolver разрешает context-URI в элементы контекста.
//
// Поддерживаются схемы:
//   - persona://<person>/<namespace>/<key> — значение из профиля
//   - memory://<person>/<memory-id>        — текст воспоминания
//   - workspace://<name>                   — состояние workspace
//
// Источники подключаются через интерфейс Source; Resolver только
// маршрутизирует URI по схеме.
package resolver

import (
	"context"
	"errors"
	"fmt"
	"net/url"
	"strings"
)

// Ошибки разрешения.
var (
	// ErrUnknownScheme — схема URI не зарегистрирована.
	ErrUnknownScheme = errors.New("unknown scheme")

	// ErrMalformedURI — URI не разбирается или не имеет host.
	ErrMalformedURI = errors.New("malformed uri")

	// ErrNotResolved — источник не нашёл объект.
	ErrNotResolved = errors.New("not resolved")
)

// ResolveError — ошибка разрешения конкретного URI.
type ResolveError struct {
	URI string
	Err error
}

func (e *ResolveError) Error() string {
	return fmt.Sprintf("resolve %s: %v", e.URI, e.Err)
}

func (e *ResolveError) Unwrap() error {
	return e.Err
}

// URI — разобранный context-URI.
type URI struct {
	// Scheme — схема без "://" ("persona", "memory", "workspace").
	Scheme string

	// Host — первый компонент: имя персоны или workspace.
	Host string

	// Path — компоненты пути после host, без пустых.
	Path []string
}

// Raw восстанавливает каноничную строку URI.
func (u *URI) Raw() string {
	if len(u.Path) == 0 {
		return u.Scheme + "://" + u.Host
	}
	return u.Scheme + "://" + u.Host + "/" + strings.Join(u.Path, "/")
}

// ParseURI разбирает context-URI.
func ParseURI(raw string) (*URI, error) {
	parsed, err := url.Parse(raw)
	if err != nil {
		return nil, &ResolveError{URI: raw, Err: ErrMalformedURI}
	}
	if parsed.Scheme == "" || parsed.Host == "" {
		return nil, &ResolveError{URI: raw, Err: ErrMalformedURI}
	}

	var path []string
	for _, part := range strings.Split(parsed.Path, "/") {
		if part != "" {
			path = append(path, part)
		}
	}

	return &URI{
		Scheme: parsed.Scheme,
		Host:   parsed.Host,
		Path:   path,
	}, nil
}

// Item — разрешённый элемент контекста.
type Item struct {
	// URI — каноничный URI элемента.
	URI string `json:"uri"`

	// Kind — вид элемента ("profile-value", "memory", "workspace").
	Kind string `json:"kind"`

	// Content — текстовое содержимое для подстановки в контекст.
	Content string `json:"content"`
}

// Source — источник элементов для одной схемы.
type Source interface {
	// Scheme возвращает схему, которую обслуживает источник.
	Scheme() string

	// Resolve разрешает разобранный URI в элемент.
	Resolve(ctx context.Context, uri *URI) (*Item, error)
}

// Resolver маршрутизирует URI по зарегистрированным источникам.
type Resolver struct {
	sources map[string]Source
}

// New создаёт Resolver над набором источников.
func New(sources ...Source) *Resolver {
	r := &Resolver{sources: make(map[string]Source, len(sources))}
	for _, s := range sources {
		r.sources[s.Scheme()] = s
	}
	return r
}

// Register добавляет источник; существующий для той же схемы замещается.
func (r *Resolver) Register(s Source) {
	r.sources[s.Scheme()] = s
}

// Resolve разрешает один URI.
func (r *Resolver) Resolve(ctx context.Context, raw string) (*Item, error) {
	uri, err := ParseURI(raw)
	if err != nil {
		return nil, err
	}

	source, ok := r.sources[uri.Scheme]
	if !ok {
		return nil, &ResolveError{URI: raw, Err: ErrUnknownScheme}
	}

	item, err := source.Resolve(ctx, uri)
	if err != nil {
		return nil, &ResolveError{URI: raw, Err: err}
	}
	return item, nil
}

// ResolveAll разрешает список URI, пропуская неразрешимые.
// Возвращает элементы и ошибки попарно с входом не связывает:
// ошибки собираются в errs в порядке обхода.
func (r *Resolver) ResolveAll(ctx context.Context, raws []string) ([]*Item, []error) {
	var items []*Item
	var errs []error
	for _, raw := range raws {
		item, err := r.Resolve(ctx, raw)
		if err != nil {
			errs = append(errs, err)
			continue
		}
		items = append(items, item)
	}
	return items, errs
}
