package service

import (
	"context"
	"fmt"
	"strings"

	"github.com/paulmach/orb/geojson"

	"github.com/yeisme/geovault/pkg/internal/geo"
	"github.com/yeisme/geovault/pkg/internal/types"
)

// ConvertService runs heterogeneous input through the row-permissive
// conversion pipeline. It is stateless; the result is handed back to the
// caller, who decides whether to feed it into Create.
type ConvertService struct{}

// NewConvertService builds the converter.
func NewConvertService(_ context.Context) *ConvertService {
	return &ConvertService{}
}

// Convert normalizes either tabular rows, raw delimited text, or a decoded
// geographic collection, depending on what the request carries.
func (s *ConvertService) Convert(_ context.Context, req *types.ConvertRequest) (*types.ConvertResponse, error) {
	rows := req.Rows
	inputCount := len(rows)

	var (
		fc  *geojson.FeatureCollection
		err error
	)

	switch {
	case len(req.Collection) > 0:
		in, uerr := geojson.UnmarshalFeatureCollection(req.Collection)
		if uerr != nil {
			return nil, fmt.Errorf("failed to decode geographic input: %w", uerr)
		}

		inputCount = len(in.Features)
		fc, err = geo.NormalizeFeatures(in, req.Mapping)

	case len(rows) > 0:
		fc, err = geo.NormalizeRows(rows, req.Mapping)

	default:
		return nil, fmt.Errorf("conversion input is empty")
	}

	if err != nil {
		return nil, err
	}

	return &types.ConvertResponse{
		Collection: fc,
		Accepted:   len(fc.Features),
		Dropped:    inputCount - len(fc.Features),
	}, nil
}

// ConvertDelimited parses raw delimited text and normalizes it. The
// delimiter defaults to a semicolon, the common export format for the
// tabular sources this pipeline targets.
func (s *ConvertService) ConvertDelimited(ctx context.Context, raw []byte, delimiter string, mapping geo.FieldMapping) (*types.ConvertResponse, error) {
	comma := ';'
	if delimiter != "" {
		comma = []rune(delimiter)[0]
	}

	rows, err := geo.ParseDelimited(strings.NewReader(string(raw)), comma)
	if err != nil {
		return nil, err
	}

	return s.Convert(ctx, &types.ConvertRequest{Mapping: mapping, Rows: rows})
}
