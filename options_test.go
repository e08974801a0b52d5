package wsdlgen

import (
	"strings"
	"testing"
	"testing/fstest"

	wsdlerrors "github.com/jacoelho/wsdlgen/errors"
)

func testResource(t *testing.T) Resource {
	t.Helper()
	fsys := fstest.MapFS{"a.xsd": &fstest.MapFile{Data: []byte("<schema/>")}}
	r, err := OpenResource(fsys, "a.xsd")
	if err != nil {
		t.Fatalf("OpenResource() error = %v", err)
	}
	return r
}

func validOptions(t *testing.T) BuildOptions {
	return NewBuildOptions().
		WithSchema(testResource(t)).
		WithPortTypeName("Orders").
		WithTargetNamespace("http://example.com/orders").
		WithLocationURI("http://localhost/orders")
}

func TestBuildOptionsDefaults(t *testing.T) {
	r, err := validOptions(t).withDefaults()
	if err != nil {
		t.Fatalf("withDefaults() error = %v", err)
	}
	if r.requestSuffix != "Request" || r.responseSuffix != "Response" || r.faultSuffix != "Fault" {
		t.Fatalf("message suffixes = %q %q %q", r.requestSuffix, r.responseSuffix, r.faultSuffix)
	}
	if r.bindingSuffix != "Binding" || r.serviceSuffix != "Service" || r.portSuffix != "Port" {
		t.Fatalf("name suffixes = %q %q %q", r.bindingSuffix, r.serviceSuffix, r.portSuffix)
	}
	if r.logger == nil {
		t.Fatal("logger should default to a no-op logger")
	}
}

func TestBuildOptionsWithReturnsCopy(t *testing.T) {
	base := validOptions(t)
	changed := base.WithPortTypeName("Other").WithRequestSuffix("In")
	if base.portTypeName != "Orders" {
		t.Fatalf("base port type = %q, want Orders", base.portTypeName)
	}
	if base.requestSuffix.set {
		t.Fatal("base request suffix should be unset")
	}
	if changed.portTypeName != "Other" || changed.requestSuffix.value != "In" {
		t.Fatalf("changed = %+v", changed)
	}
}

func TestBuildOptionsValidate(t *testing.T) {
	tests := []struct {
		name  string
		opts  func(BuildOptions) BuildOptions
		wants []string
	}{
		{
			name: "valid",
			opts: func(o BuildOptions) BuildOptions { return o },
		},
		{
			name:  "empty",
			opts:  func(BuildOptions) BuildOptions { return NewBuildOptions() },
			wants: []string{"schema is required", "port type name is required", "target namespace is required", "location URI is required"},
		},
		{
			name:  "port type not an NCName",
			opts:  func(o BuildOptions) BuildOptions { return o.WithPortTypeName("tns:Orders") },
			wants: []string{`port type name "tns:Orders" is not an NCName`},
		},
		{
			name:  "port type starts with digit",
			opts:  func(o BuildOptions) BuildOptions { return o.WithPortTypeName("1Orders") },
			wants: []string{"not an NCName"},
		},
		{
			name:  "relative target namespace",
			opts:  func(o BuildOptions) BuildOptions { return o.WithTargetNamespace("orders") },
			wants: []string{`target namespace "orders" is not an absolute URI`},
		},
		{
			name:  "unparsable location",
			opts:  func(o BuildOptions) BuildOptions { return o.WithLocationURI("http://[::1") },
			wants: []string{"location URI"},
		},
		{
			name:  "empty suffixes",
			opts:  func(o BuildOptions) BuildOptions { return o.WithFaultSuffix("").WithPortSuffix("") },
			wants: []string{"fault suffix must not be empty", "port suffix must not be empty"},
		},
		{
			name:  "duplicate suffixes",
			opts:  func(o BuildOptions) BuildOptions { return o.WithResponseSuffix("Request") },
			wants: []string{`request and response suffixes are both "Request"`},
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := tt.opts(validOptions(t)).Validate()
			if len(tt.wants) == 0 {
				if err != nil {
					t.Fatalf("Validate() error = %v", err)
				}
				return
			}
			if err == nil {
				t.Fatal("Validate() expected error")
			}
			if code, _ := wsdlerrors.CodeOf(err); code != wsdlerrors.ErrInvalidOption {
				t.Fatalf("code = %q, want %q", code, wsdlerrors.ErrInvalidOption)
			}
			for _, want := range tt.wants {
				if !strings.Contains(err.Error(), want) {
					t.Fatalf("Validate() error = %v, want %q", err, want)
				}
			}
		})
	}
}

func TestNewBuilderValidates(t *testing.T) {
	_, err := NewBuilder(NewBuildOptions())
	if !wsdlerrors.IsInput(err) {
		t.Fatalf("NewBuilder() error = %v, want input error", err)
	}
}

func TestIsNCName(t *testing.T) {
	tests := []struct {
		in   string
		want bool
	}{
		{"Orders", true},
		{"_orders", true},
		{"order-service.v2", true},
		{"Café", true},
		{"", false},
		{"1orders", false},
		{"-orders", false},
		{"tns:Orders", false},
		{"two words", false},
	}
	for _, tt := range tests {
		if got := isNCName(tt.in); got != tt.want {
			t.Errorf("isNCName(%q) = %v, want %v", tt.in, got, tt.want)
		}
	}
}

func TestSuffixRulesLongestFirst(t *testing.T) {
	b, err := NewBuilder(validOptions(t).
		WithRequestSuffix("Fault").
		WithFaultSuffix("ServiceFault").
		WithResponseSuffix("Reply"))
	if err != nil {
		t.Fatalf("NewBuilder() error = %v", err)
	}
	rules := b.suffixRules()
	if rules[0].suffix != "ServiceFault" || rules[0].kind != faultMessage {
		t.Fatalf("first rule = %+v, want ServiceFault fault rule", rules[0])
	}
}
