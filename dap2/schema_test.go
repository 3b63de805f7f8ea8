package dap2

import "testing"

func TestParseDDSArrayScenario(t *testing.T) {
	schema, err := ParseDDS("Dataset { Float32 latitude[latitude = 5]; } ds;")
	if err != nil {
		t.Fatalf("ParseDDS: %v", err)
	}
	if schema.Name() != "ds" {
		t.Fatalf("got name %q", schema.Name())
	}
	if got := schema.Coordinates(); len(got) != 1 || got[0] != "latitude" {
		t.Fatalf("Coordinates() = %v, want [latitude]", got)
	}
	if got := schema.Variables(); len(got) != 0 {
		t.Fatalf("Variables() = %v, want []", got)
	}
}

func TestParseDDSGridScenario(t *testing.T) {
	text := `Dataset {
		Grid {
			ARRAY:
				Float32 t[time=3][lat=2];
			MAPS:
				Int32 time[time=3];
				Float32 lat[lat=2];
		} t;
	} ds;`
	schema, err := ParseDDS(text)
	if err != nil {
		t.Fatalf("ParseDDS: %v", err)
	}
	info, err := schema.VariableInfo("t")
	if err != nil {
		t.Fatalf("VariableInfo: %v", err)
	}
	if info.Type != VariableGrid {
		t.Fatalf("got type %v, want Grid", info.Type)
	}
	if info.Kind != KindFloat32 {
		t.Fatalf("got kind %v, want Float32", info.Kind)
	}
	if len(info.CoordinateNames) != 2 || info.CoordinateNames[0] != "time" || info.CoordinateNames[1] != "lat" {
		t.Fatalf("CoordinateNames = %v, want [time lat]", info.CoordinateNames)
	}
}

func TestSchemaCoordinatesUnionsGridMapsWithoutTopLevelCounterpart(t *testing.T) {
	text := `Dataset {
		Grid {
			ARRAY:
				Float32 t[time=3][lat=2];
			MAPS:
				Int32 time[time=3];
				Float32 lat[lat=2];
		} t;
	} ds;`
	schema, err := ParseDDS(text)
	if err != nil {
		t.Fatalf("ParseDDS: %v", err)
	}
	coords := schema.Coordinates()
	if len(coords) != 2 || coords[0] != "time" || coords[1] != "lat" {
		t.Fatalf("Coordinates() = %v, want [time lat]", coords)
	}
	info, err := schema.CoordinateInfo("time")
	if err != nil {
		t.Fatalf("CoordinateInfo(time): %v", err)
	}
	if info.Kind != KindInt32 || info.Size != 3 {
		t.Fatalf("CoordinateInfo(time) = %+v, want Int32 size 3", info)
	}
}

func TestSchemaNotFound(t *testing.T) {
	schema, err := ParseDDS("Dataset { Float32 x[x=1]; } ds;")
	if err != nil {
		t.Fatalf("ParseDDS: %v", err)
	}
	if _, err := schema.VariableInfo("missing"); err == nil {
		t.Fatal("expected NotFound error")
	}
}

func TestSchemaMarshalJSON(t *testing.T) {
	schema, err := ParseDDS("Dataset { Float32 latitude[latitude = 5]; } ds;")
	if err != nil {
		t.Fatalf("ParseDDS: %v", err)
	}
	raw, err := schema.MarshalJSON()
	if err != nil {
		t.Fatalf("MarshalJSON: %v", err)
	}
	if len(raw) == 0 {
		t.Fatal("expected non-empty JSON")
	}
}
