package types

import "testing"

func TestParseFieldId(t *testing.T) {
	tests := []struct {
		in   string
		want FieldId
	}{
		{"encoded_size", FieldEncodedSize},
		{"ENCODED_SIZE", FieldEncodedSize},
		{" psnr ", FieldPsnr},
		{"source_image_name", FieldSourceImageName},
		{"no_such_field", FieldCustom},
		{"", FieldCustom},
	}
	for _, tt := range tests {
		if got := ParseFieldId(tt.in); got != tt.want {
			t.Errorf("ParseFieldId(%q) = %v, want %v", tt.in, got, tt.want)
		}
	}
}

func TestFieldIdRoundTrip(t *testing.T) {
	for id := range fieldIdNames {
		if got := ParseFieldId(id.String()); got != id {
			t.Errorf("round trip %v -> %q -> %v", id, id.String(), got)
		}
	}
}

func TestIsDistortion(t *testing.T) {
	distortion := []FieldId{FieldPsnr, FieldSsim, FieldDssim, FieldMsssim,
		FieldButteraugli, FieldVmaf, FieldCiede2000}
	for _, id := range distortion {
		if !id.IsDistortion() {
			t.Errorf("%v.IsDistortion() = false", id)
		}
	}
	for _, id := range []FieldId{FieldEncodedSize, FieldSourceImageName, FieldCustom, FieldQuality} {
		if id.IsDistortion() {
			t.Errorf("%v.IsDistortion() = true", id)
		}
	}
}

func TestReferenceSelection(t *testing.T) {
	sel := &BatchSelection{}
	state := &State{BatchSelections: []*BatchSelection{sel}}

	state.ReferenceBatchSelectionIndex = 0
	if state.ReferenceSelection() != sel {
		t.Fatal("valid index did not resolve")
	}
	for _, idx := range []int{-1, 1, 42} {
		state.ReferenceBatchSelectionIndex = idx
		if state.ReferenceSelection() != nil {
			t.Fatalf("index %d resolved, want nil", idx)
		}
	}
}
