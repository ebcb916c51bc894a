// Package resultwire serves materialized results over TCP with
// length-prefixed JSON frames.
package resultwire

import (
	"github.com/tuannm99/novaresult/internal/variant"
)

type Op string

const (
	OpOpen     Op = "open"
	OpFetch    Op = "fetch"
	OpValue    Op = "value"
	OpExtract  Op = "extract"
	OpRender   Op = "render"
	OpClose    Op = "close"
	OpDatasets Op = "datasets"
)

// Request is a single command. Which fields matter depends on Op.
type Request struct {
	ID      uint64 `json:"id"`
	Op      Op     `json:"op"`
	Dataset string `json:"dataset,omitempty"`
	Handle  uint64 `json:"handle,omitempty"`

	// value
	Column int `json:"column,omitempty"`
	Row    int `json:"row,omitempty"`

	// extract; Limit 0 means the server batch size, < 0 means all rows
	Offset int `json:"offset,omitempty"`
	Limit  int `json:"limit,omitempty"`

	// render: "text" or "box"
	Format  string `json:"format,omitempty"`
	MaxRows int    `json:"max_rows,omitempty"`
}

type Column struct {
	Name string `json:"name"`
	Type string `json:"type"`
}

type Cell struct {
	Type    string          `json:"type"`
	Null    bool            `json:"null,omitempty"`
	Text    string          `json:"text"`
	Variant variant.Variant `json:"variant"`
}

// Response answers the request with the same ID. Error is a request failure;
// ResultError is the message of an opened result that did not succeed.
type Response struct {
	ID    uint64 `json:"id"`
	Error string `json:"error,omitempty"`

	Handle      uint64   `json:"handle,omitempty"`
	ResultError string   `json:"result_error,omitempty"`
	Columns     []Column `json:"columns,omitempty"`
	RowCount    int      `json:"row_count,omitempty"`

	Rows variant.Matrix `json:"rows,omitempty"`
	// Done is set by fetch once the scan is exhausted.
	Done bool `json:"done,omitempty"`

	Cell     *Cell    `json:"cell,omitempty"`
	Text     string   `json:"text,omitempty"`
	Datasets []string `json:"datasets,omitempty"`
}
