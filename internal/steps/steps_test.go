package steps

import (
	"testing"

	"github.com/google/go-cmp/cmp"
)

var markers = []string{"-", "none", "n/a", "null", "yok", "nan"}

func TestExtract_JSON(t *testing.T) {
	raw := `[
		{"Action": "Open the app", "Data": "", "Expected Result": "Home page is shown"},
		{"Action": "Tap login", "Data": "user=qa01", "Expected Result": "Login form opens"}
	]`
	got := NewChain(markers).Extract(raw)
	want := Extraction{
		Parser: "json",
		Blocks: []Block{
			{Action: "Open the app", Expected: "Home page is shown"},
			{Action: "Tap login", Data: "user=qa01", Expected: "Login form opens"},
		},
	}
	if diff := cmp.Diff(want, got); diff != "" {
		t.Errorf("Extract mismatch (-want +got):\n%s", diff)
	}
}

func TestExtract_JSONVariants(t *testing.T) {
	tests := []struct {
		name string
		raw  string
		want []Block
	}{
		{
			name: "xray fields wrapper",
			raw:  `[{"index": 1, "fields": {"Action": "Open", "Data": "-", "Expected Result": "Opened view is ready"}}]`,
			want: []Block{{Action: "Open", Expected: "Opened view is ready"}},
		},
		{
			name: "steps object",
			raw:  `{"steps": [{"step": "Open", "expected": "Shown"}]}`,
			want: []Block{{Action: "Open", Expected: "Shown"}},
		},
		{
			name: "turkish keys",
			raw:  `[{"Adım": "Uygulamayı aç", "Test Data": "n/a", "Beklenen Sonuç": "Ana sayfa görüntülenir"}]`,
			want: []Block{{Action: "Uygulamayı aç", Expected: "Ana sayfa görüntülenir"}},
		},
		{
			name: "snake case and numbers",
			raw:  `[{"action": "Enter amount", "data": 250, "expected_result": "Accepted"}]`,
			want: []Block{{Action: "Enter amount", Data: "250", Expected: "Accepted"}},
		},
		{
			name: "colliding aliases pick first sorted non-empty",
			raw:  `[{"Step": "second", "Action": "first"}]`,
			want: []Block{{Action: "first"}},
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := NewChain(markers).Extract(tt.raw)
			if diff := cmp.Diff(tt.want, got.Blocks); diff != "" {
				t.Errorf("blocks mismatch (-want +got):\n%s", diff)
			}
		})
	}
}

func TestExtract_DoubleEncoded(t *testing.T) {
	tests := []struct {
		name string
		raw  string
	}{
		{"json string", `"[{\"Action\": \"Open\", \"Expected Result\": \"Shown\"}]"`},
		{"csv doubled quotes", `"[{""Action"": ""Open"", ""Expected Result"": ""Shown""}]"`},
		{"backslash escapes", `[{\"Action\": \"Open\", \"Expected Result\": \"Shown\"}]`},
	}
	want := []Block{{Action: "Open", Expected: "Shown"}}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := NewChain(markers).Extract(tt.raw)
			if got.Parser != "unescaped-json" {
				t.Errorf("Parser = %q, want unescaped-json", got.Parser)
			}
			if diff := cmp.Diff(want, got.Blocks); diff != "" {
				t.Errorf("blocks mismatch (-want +got):\n%s", diff)
			}
		})
	}
}

func TestExtract_Labels(t *testing.T) {
	raw := "<p>Action: Open the app<br>Data: -<br>Expected Result: Home page is shown</p>" +
		"<p>Action: Tap settings<br>Expected Result: Settings open</p>"
	got := NewChain(markers).Extract(raw)
	want := []Block{
		{Action: "Open the app", Expected: "Home page is shown"},
		{Action: "Tap settings", Expected: "Settings open"},
	}
	if got.Parser != "labels+separators" {
		t.Errorf("Parser = %q", got.Parser)
	}
	if diff := cmp.Diff(want, got.Blocks); diff != "" {
		t.Errorf("blocks mismatch (-want +got):\n%s", diff)
	}
}

func TestExtract_TurkishLabels(t *testing.T) {
	raw := "ADIM: Uygulamayı aç\nBeklenen Sonuç: Giriş ekranı görüntülenir\nAdım: Şifre gir\nBeklenen: Ana sayfa açılır"
	got := NewChain(markers).Extract(raw)
	want := []Block{
		{Action: "Uygulamayı aç", Expected: "Giriş ekranı görüntülenir"},
		{Action: "Şifre gir", Expected: "Ana sayfa açılır"},
	}
	if diff := cmp.Diff(want, got.Blocks); diff != "" {
		t.Errorf("blocks mismatch (-want +got):\n%s", diff)
	}
}

func TestExtract_RepeatedLabelStartsBlock(t *testing.T) {
	raw := "Data: msisdn=5321234567\nAction: Query balance\nData: second\nExpected: Balance returned"
	got := NewChain(markers).Extract(raw)
	want := []Block{
		{Action: "Query balance", Data: "msisdn=5321234567"},
		{Data: "second", Expected: "Balance returned"},
	}
	if diff := cmp.Diff(want, got.Blocks); diff != "" {
		t.Errorf("blocks mismatch (-want +got):\n%s", diff)
	}
}

func TestExtract_StepSeparators(t *testing.T) {
	raw := "Step 1: Open the app\nStep 2: Action: Enter PIN\nExpected: PIN accepted\nStep 3: Tap pay"
	got := NewChain(markers).Extract(raw)
	want := []Block{
		{Action: "Open the app"},
		{Action: "Enter PIN", Expected: "PIN accepted"},
		{Action: "Tap pay"},
	}
	if diff := cmp.Diff(want, got.Blocks); diff != "" {
		t.Errorf("blocks mismatch (-want +got):\n%s", diff)
	}
}

func TestExtract_StepSeparatorsEndLabelValues(t *testing.T) {
	raw := "Step 1: Open the app\nExpected: App opens\nStep 2: Tap login on iOS\nExpected: Login screen is shown"
	got := NewChain(markers).Extract(raw)
	want := []Block{
		{Action: "Open the app", Expected: "App opens"},
		{Action: "Tap login on iOS", Expected: "Login screen is shown"},
	}
	if diff := cmp.Diff(want, got.Blocks); diff != "" {
		t.Errorf("blocks mismatch (-want +got):\n%s", diff)
	}
}

func TestExtract_StepSeparatorsKeepLabelledPreamble(t *testing.T) {
	raw := "Data: user=qa01\nStep 1: Open the app\nStep 2: Sign in\nExpected: Home page is shown"
	got := NewChain(markers).Extract(raw)
	want := []Block{
		{Data: "user=qa01"},
		{Action: "Open the app"},
		{Action: "Sign in", Expected: "Home page is shown"},
	}
	if diff := cmp.Diff(want, got.Blocks); diff != "" {
		t.Errorf("blocks mismatch (-want +got):\n%s", diff)
	}
}

func TestExtract_SingleBlockResplit(t *testing.T) {
	raw := "Step 1: open app\nStep 2: enter credentials\nExpected Result: Home page is shown"
	got := NewChain(markers).Extract(raw)
	want := []Block{
		{Action: "open app"},
		{Action: "enter credentials", Expected: "Home page is shown"},
	}
	if diff := cmp.Diff(want, got.Blocks); diff != "" {
		t.Errorf("blocks mismatch (-want +got):\n%s", diff)
	}
}

func TestExtract_LiteralNewlineEscapes(t *testing.T) {
	raw := `Action: Open app\nExpected Result: App opens`
	got := NewChain(markers).Extract(raw)
	want := []Block{{Action: "Open app", Expected: "App opens"}}
	if diff := cmp.Diff(want, got.Blocks); diff != "" {
		t.Errorf("blocks mismatch (-want +got):\n%s", diff)
	}
}

func TestExtract_NeverFails(t *testing.T) {
	inputs := []string{
		"",
		"   ",
		"[",
		"{not json",
		`[1, 2, "three"]`,
		`[{"foo": "bar"}]`,
		"just some free text without labels",
		"\xff\xfe\x00",
		"<div><span></span></div>",
		`""`,
		`"\"\""`,
		"Action: -\nExpected: n/a",
	}
	c := NewChain(markers)
	for _, in := range inputs {
		got := c.Extract(in)
		if len(got.Blocks) != 0 {
			t.Errorf("Extract(%q) = %+v, want no blocks", in, got.Blocks)
		}
	}
}

func TestFieldFor(t *testing.T) {
	tests := []struct {
		in   string
		want Field
	}{
		{"Action", FieldAction},
		{"STEP", FieldAction},
		{"Adım", FieldAction},
		{"expected_result", FieldExpected},
		{"Expected Result", FieldExpected},
		{"Beklenen Sonuç", FieldExpected},
		{"Test-Data", FieldData},
		{"index", FieldNone},
	}
	for _, tt := range tests {
		if got := FieldFor(tt.in); got != tt.want {
			t.Errorf("FieldFor(%q) = %v, want %v", tt.in, got, tt.want)
		}
	}
}
