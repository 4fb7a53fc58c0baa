package jsonvalue

import "testing"

func TestParse_RoundTripsObject(t *testing.T) {
	src := `{"a":1,"b":[true,false,null],"c":"hi\nthere"}`
	v, err := Parse(src)
	if err != nil {
		t.Fatalf("Parse: %v", err)
	}
	if got := Stringify(v); got != src {
		t.Fatalf("round trip: got=%s want=%s", got, src)
	}
}

func TestParse_PreservesKeyOrder(t *testing.T) {
	v, err := Parse(`{"z":1,"a":2,"m":3}`)
	if err != nil {
		t.Fatalf("Parse: %v", err)
	}
	want := []string{"z", "a", "m"}
	got := v.Keys()
	if len(got) != len(want) {
		t.Fatalf("keys: got=%v want=%v", got, want)
	}
	for i := range want {
		if got[i] != want[i] {
			t.Fatalf("keys[%d]: got=%s want=%s", i, got[i], want[i])
		}
	}
}

func TestGetPath_MissingKeyIsNotOk(t *testing.T) {
	v, _ := Parse(`{"params":{"textDocument":{"uri":"file:///a.claw"}}}`)
	if _, ok := GetPath(v, "params", "position"); ok {
		t.Fatalf("expected missing path to be not-ok")
	}
	got, ok := GetPath(v, "params", "textDocument", "uri")
	if !ok || got.AsString() != "file:///a.claw" {
		t.Fatalf("GetPath: got=%v ok=%v", got, ok)
	}
}

func TestGetPath_NonObjectHopFails(t *testing.T) {
	v, _ := Parse(`{"id":5}`)
	if _, ok := GetPath(v, "id", "nested"); ok {
		t.Fatalf("expected hop through a number to fail")
	}
}

func TestObjectBuilder_Build(t *testing.T) {
	v := Object().Set("jsonrpc", String("2.0")).Set("id", Int(1)).Build()
	if got := Stringify(v); got != `{"jsonrpc":"2.0","id":1}` {
		t.Fatalf("got %s", got)
	}
}

func TestStringify_FractionalNumberUsesSeventeenSignificantDigits(t *testing.T) {
	v := Object().Set("pi", Number(3.14159265358979)).Build()
	want := `{"pi":3.14159265358979}`
	if got := Stringify(v); got != want {
		t.Fatalf("got %s want %s", got, want)
	}
}

func TestParse_EscapedUnicode(t *testing.T) {
	v, err := Parse(`"é"`)
	if err != nil {
		t.Fatalf("Parse: %v", err)
	}
	if v.AsString() != "é" {
		t.Fatalf("got %q", v.AsString())
	}
}
