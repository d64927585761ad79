package api

import (
	"fmt"
	"math"

	"github.com/solatis/spellcore/internal/types"
	"google.golang.org/protobuf/types/known/structpb"
)

// request reads typed fields from a Struct payload. Missing fields yield
// zero values; fields of the wrong kind are errInvalidRequest.
type request struct {
	fields map[string]*structpb.Value
}

func newRequest(s *structpb.Struct) request {
	return request{fields: s.GetFields()}
}

func (r request) getString(key string) (string, error) {
	v, ok := r.fields[key]
	if !ok || isNull(v) {
		return "", nil
	}
	s, ok := v.GetKind().(*structpb.Value_StringValue)
	if !ok {
		return "", fmt.Errorf("%w: %s must be a string", errInvalidRequest, key)
	}
	return s.StringValue, nil
}

func (r request) getBool(key string) (bool, error) {
	v, ok := r.fields[key]
	if !ok || isNull(v) {
		return false, nil
	}
	b, ok := v.GetKind().(*structpb.Value_BoolValue)
	if !ok {
		return false, fmt.Errorf("%w: %s must be a bool", errInvalidRequest, key)
	}
	return b.BoolValue, nil
}

// getInt reads a non-negative whole number.
func (r request) getInt(key string) (int, error) {
	v, ok := r.fields[key]
	if !ok || isNull(v) {
		return 0, nil
	}
	n, ok := v.GetKind().(*structpb.Value_NumberValue)
	if !ok || n.NumberValue < 0 || n.NumberValue != math.Trunc(n.NumberValue) || n.NumberValue > math.MaxInt32 {
		return 0, fmt.Errorf("%w: %s must be a non-negative integer", errInvalidRequest, key)
	}
	return int(n.NumberValue), nil
}

func (r request) getStrings(key string) ([]string, error) {
	v, ok := r.fields[key]
	if !ok || isNull(v) {
		return nil, nil
	}
	list, ok := v.GetKind().(*structpb.Value_ListValue)
	if !ok {
		return nil, fmt.Errorf("%w: %s must be a list of strings", errInvalidRequest, key)
	}
	out := make([]string, 0, len(list.ListValue.GetValues()))
	for i, item := range list.ListValue.GetValues() {
		s, ok := item.GetKind().(*structpb.Value_StringValue)
		if !ok {
			return nil, fmt.Errorf("%w: %s[%d] must be a string", errInvalidRequest, key, i)
		}
		out = append(out, s.StringValue)
	}
	return out, nil
}

func (r request) getFlags(key string) (types.FlagSet, error) {
	names, err := r.getStrings(key)
	if err != nil {
		return nil, err
	}
	set := make(types.FlagSet, len(names))
	for _, n := range names {
		if n == "" {
			return nil, fmt.Errorf("%s: %w", key, types.ErrEmptyFlag)
		}
		set[types.Flag(n)] = struct{}{}
	}
	return set, nil
}

func isNull(v *structpb.Value) bool {
	_, ok := v.GetKind().(*structpb.Value_NullValue)
	return ok
}

// stringList converts to the []interface{} form structpb.NewValue accepts.
func stringList(in []string) []interface{} {
	out := make([]interface{}, len(in))
	for i, s := range in {
		out[i] = s
	}
	return out
}
