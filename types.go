// Package novaresult is the top-level facade for the materialized result layer.
package novaresult

import (
	"github.com/tuannm99/novaresult/internal/collection"
	"github.com/tuannm99/novaresult/internal/loader"
	"github.com/tuannm99/novaresult/internal/record"
	"github.com/tuannm99/novaresult/internal/render"
	"github.com/tuannm99/novaresult/internal/result"
	"github.com/tuannm99/novaresult/internal/value"
	"github.com/tuannm99/novaresult/internal/variant"
)

type (
	MaterializedResult  = result.MaterializedResult
	StatementType       = result.StatementType
	StatementProperties = result.StatementProperties
	ClientProperties    = result.ClientProperties
	ScanStatus          = result.ScanStatus

	Collection  = collection.Collection
	DataChunk   = collection.DataChunk
	LogicalType = record.LogicalType
	TypeID      = record.TypeID
	Value       = value.Value
	Interval    = value.Interval

	Variant     = variant.Variant
	VariantKind = variant.Kind
	Row         = variant.Row
	Matrix      = variant.Matrix

	RenderConfig = render.Config
)

var (
	ErrInvalidInput = result.ErrInvalidInput
	ErrInternal     = result.ErrInternal
)

const (
	StatementSelect  = result.StatementSelect
	StatementInsert  = result.StatementInsert
	StatementUpdate  = result.StatementUpdate
	StatementDelete  = result.StatementDelete
	StatementExplain = result.StatementExplain
)

const (
	TypeBoolean   = record.TypeBoolean
	TypeTinyInt   = record.TypeTinyInt
	TypeSmallInt  = record.TypeSmallInt
	TypeInteger   = record.TypeInteger
	TypeBigInt    = record.TypeBigInt
	TypeUTinyInt  = record.TypeUTinyInt
	TypeUSmallInt = record.TypeUSmallInt
	TypeUInteger  = record.TypeUInteger
	TypeUBigInt   = record.TypeUBigInt
	TypeFloat     = record.TypeFloat
	TypeDouble    = record.TypeDouble
	TypeDecimal   = record.TypeDecimal
	TypeVarchar   = record.TypeVarchar
	TypeBlob      = record.TypeBlob
	TypeDate      = record.TypeDate
	TypeTime      = record.TypeTime
	TypeTimestamp = record.TypeTimestamp
	TypeInterval  = record.TypeInterval
	TypeUUID      = record.TypeUUID
)

// Column types.
var (
	NewType     = record.NewType
	DecimalType = record.Decimal
	ParseType   = record.ParseType
)

// Value constructors, used to populate a collection from NewCollection.
var (
	Null          = value.Null
	Boolean       = value.Boolean
	TinyInt       = value.TinyInt
	SmallInt      = value.SmallInt
	Integer       = value.Integer
	BigInt        = value.BigInt
	UTinyInt      = value.UTinyInt
	USmallInt     = value.USmallInt
	UInteger      = value.UInteger
	UBigInt       = value.UBigInt
	Float         = value.Float
	Double        = value.Double
	Decimal       = value.Decimal
	Varchar       = value.Varchar
	Blob          = value.Blob
	Date          = value.Date
	Time          = value.Time
	Timestamp     = value.Timestamp
	IntervalValue = value.IntervalValue
	UUID          = value.UUID
)

// New wraps a populated collection as a successful result.
func New(
	statementType StatementType,
	properties StatementProperties,
	names []string,
	coll *Collection,
	clientProperties ClientProperties,
) (*MaterializedResult, error) {
	return result.New(statementType, properties, names, coll, clientProperties)
}

// NewError builds an unsuccessful result carrying err.
func NewError(err error) *MaterializedResult { return result.NewError(err) }

// NewCollection creates an empty collection with the given column types.
func NewCollection(types []LogicalType, chunkCapacity int) *Collection {
	return collection.New(types, collection.WithChunkCapacity(chunkCapacity))
}

// Open loads a CSV or JSON-lines file as a SELECT result.
func Open(path string) *MaterializedResult { return loader.Open(path) }

func DefaultRenderConfig() RenderConfig { return render.DefaultConfig() }
