package scratch

import "testing"

func TestValueAsFloat(t *testing.T) {
	tests := []struct {
		name string
		v    Value
		want float64
	}{
		{"number", NumberValue(3.5), 3.5},
		{"numeric string", StringValue(" 42 "), 42},
		{"empty string", StringValue(""), 0},
		{"non-numeric string", StringValue("hello"), 0},
		{"null", Null, 0},
		{"bool true", BoolValue(true), 0},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := tt.v.AsFloat(); got != tt.want {
				t.Errorf("AsFloat() = %v, want %v", got, tt.want)
			}
		})
	}
}

func TestValueAsBool(t *testing.T) {
	tests := []struct {
		name string
		v    Value
		want bool
	}{
		{"null", Null, false},
		{"empty string", StringValue(""), false},
		{"string zero", StringValue("0"), false},
		{"numeric zero is truthy", NumberValue(0), true},
		{"non-empty string", StringValue("false"), true},
		{"bool false", BoolValue(false), false},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := tt.v.AsBool(); got != tt.want {
				t.Errorf("AsBool() = %v, want %v", got, tt.want)
			}
		})
	}
}

func TestValuesEqual(t *testing.T) {
	tests := []struct {
		name string
		a, b Value
		want bool
	}{
		{"numeric strings", StringValue("1"), NumberValue(1), true},
		{"case-insensitive text", StringValue("Cat"), StringValue("cat"), true},
		{"null vs false string not equal", Null, BoolValue(false), false},
		{"null vs empty string", Null, StringValue(""), true},
		{"different numbers", NumberValue(1), NumberValue(2), false},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := ValuesEqual(tt.a, tt.b); got != tt.want {
				t.Errorf("ValuesEqual(%v, %v) = %v, want %v", tt.a, tt.b, got, tt.want)
			}
		})
	}
}
