package service_test

import (
	"context"
	"testing"

	"github.com/yeisme/geovault/pkg/internal/geo"
	"github.com/yeisme/geovault/pkg/internal/service"
	"github.com/yeisme/geovault/pkg/internal/types"
)

func convertMapping() geo.FieldMapping {
	return geo.FieldMapping{
		Fields: map[string]string{
			"name":        "nome",
			"description": "descrizione",
			"category":    "tipo",
			"city":        "comune",
		},
		Latitude:  "lat",
		Longitude: "lon",
	}
}

func TestConvertRows(t *testing.T) {
	ctx := context.Background()
	svc := service.NewConvertService(ctx)

	rows := []map[string]any{
		{
			"nome": "Fontana A", "descrizione": "storica", "tipo": "Enti",
			"comune": "Milano", "lat": "45,4642", "lon": "9,1900",
		},
		{
			// blank required field, dropped
			"nome": "", "descrizione": "storica", "tipo": "Enti",
			"comune": "Milano", "lat": "45,5", "lon": "9,2",
		},
	}

	resp, err := svc.Convert(ctx, &types.ConvertRequest{Mapping: convertMapping(), Rows: rows})
	if err != nil {
		t.Fatalf("convert: %v", err)
	}

	if resp.Accepted != 1 || resp.Dropped != 1 {
		t.Errorf("expected accepted=1 dropped=1, got %+v", resp)
	}
}

func TestConvertDelimited(t *testing.T) {
	ctx := context.Background()
	svc := service.NewConvertService(ctx)

	raw := []byte("nome;descrizione;tipo;comune;lat;lon\n" +
		"Fontana A;storica;Enti;Milano;45,4642;9,1900\n")

	resp, err := svc.ConvertDelimited(ctx, raw, "", convertMapping())
	if err != nil {
		t.Fatalf("convert delimited: %v", err)
	}

	if resp.Accepted != 1 || resp.Dropped != 0 {
		t.Errorf("expected accepted=1 dropped=0, got %+v", resp)
	}
}

func TestConvertEmptyInput(t *testing.T) {
	ctx := context.Background()
	svc := service.NewConvertService(ctx)

	if _, err := svc.Convert(ctx, &types.ConvertRequest{Mapping: convertMapping()}); err == nil {
		t.Error("expected error for empty input")
	}
}
