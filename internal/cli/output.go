package cli

import (
	"encoding/json"
	"fmt"
	"io"
	"os"
	"strconv"
	"strings"
	"text/tabwriter"
)

// Output форматирует вывод CLI: таблицы персон, воспоминаний и
// workspaces — для человека, JSON — для пайпов
// (persona person list --json | jq .).
//
// Данные идут в stdout, сообщения Success/Error — в stderr, чтобы
// JSON-вывод оставался чистым для обработки.
type Output struct {
	jsonMode bool
	w        io.Writer
	errW     io.Writer
}

// NewOutput создаёт Output, пишущий в stdout/stderr.
func NewOutput(jsonMode bool) *Output {
	return &Output{
		jsonMode: jsonMode,
		w:        os.Stdout,
		errW:     os.Stderr,
	}
}

// Print выводит данные: в JSON-режиме — jsonData, иначе таблицу.
func (o *Output) Print(headers []string, rows [][]string, jsonData any) {
	if o.jsonMode {
		o.JSON(jsonData)
		return
	}
	o.Table(headers, rows)
}

// Table выводит таблицу через tabwriter.
// Пустой набор строк печатает "(none)" вместо пустой шапки.
func (o *Output) Table(headers []string, rows [][]string) {
	if len(rows) == 0 {
		fmt.Fprintln(o.w, "(none)")
		return
	}

	tw := tabwriter.NewWriter(o.w, 0, 0, 2, ' ', 0)

	writeRow(tw, headers)

	sep := make([]string, len(headers))
	for i, h := range headers {
		sep[i] = strings.Repeat("-", len(h))
	}
	writeRow(tw, sep)

	for _, row := range rows {
		writeRow(tw, row)
	}

	tw.Flush()
}

// writeRow пишет одну строку таблицы, разделяя ячейки табуляцией.
func writeRow(w io.Writer, cells []string) {
	fmt.Fprintln(w, strings.Join(cells, "\t"))
}

// JSON выводит данные в формате JSON с отступами.
func (o *Output) JSON(v any) {
	data, err := json.MarshalIndent(v, "", "  ")
	if err != nil {
		o.Error("encode json: " + err.Error())
		return
	}
	fmt.Fprintln(o.w, string(data))
}

// Success выводит сообщение об успехе в stderr.
func (o *Output) Success(msg string) {
	fmt.Fprintln(o.errW, msg)
}

// Error выводит сообщение об ошибке в stderr.
func (o *Output) Error(msg string) {
	fmt.Fprintln(o.errW, "Error: "+msg)
}

// Score форматирует значение атрибута персоны для таблиц: один знак
// после запятой, целые — без дробной части ("30", "32.4", "-12.5").
func Score(v float64) string {
	s := strconv.FormatFloat(v, 'f', 1, 64)
	return strings.TrimSuffix(s, ".0")
}

// truncate обрезает ячейку таблицы до max символов.
func truncate(s string, max int) string {
	if len(s) <= max {
		return s
	}
	return s[:max-1] + "…"
}
