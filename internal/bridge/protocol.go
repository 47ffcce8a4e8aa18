// Package bridge carries native wallpaper events over a local socket.
//
// Every message is a protobuf Struct framed by a 4 byte big endian length. An
// invocation names a Listener method and its arguments:
//
//	{"method": "OffsetsChanged", "args": [0.5, 0, 0.25, 0, -540, 0]}
//
// and is answered with {"ok": true} or {"ok": false, "error": "..."}.
package bridge

import (
	"errors"
	"fmt"
	"math"
	"strconv"
	"strings"

	"google.golang.org/protobuf/types/known/structpb"

	"github.com/bnema/wallhub/internal/wallpaper"
)

// ErrUnknownMethod is returned for invocations of methods the bridge does not know
var ErrUnknownMethod = errors.New("unknown method")

// ErrBadArguments is returned when an invocation's arguments do not match its method
var ErrBadArguments = errors.New("bad arguments")

// ArgKind is the type of a single invocation argument
type ArgKind int

const (
	ArgBool ArgKind = iota
	ArgInt
	ArgFloat
	ArgString
)

func (k ArgKind) String() string {
	switch k {
	case ArgBool:
		return "bool"
	case ArgInt:
		return "int"
	case ArgFloat:
		return "float"
	case ArgString:
		return "string"
	default:
		return fmt.Sprintf("ArgKind(%d)", int(k))
	}
}

// Method describes one Listener method reachable through the bridge
type Method struct {
	Name string
	Args []ArgKind
	call func(l wallpaper.Listener, args []*structpb.Value)
}

// Usage returns the method name followed by its argument kinds
func (m Method) Usage() string {
	parts := []string{m.Name}
	for _, k := range m.Args {
		parts = append(parts, "<"+k.String()+">")
	}
	return strings.Join(parts, " ")
}

var methods = []Method{
	{
		Name: "VisibilityChanged",
		Args: []ArgKind{ArgBool},
		call: func(l wallpaper.Listener, a []*structpb.Value) {
			l.VisibilityChanged(a[0].GetBoolValue())
		},
	},
	{
		Name: "IsPreviewChanged",
		Args: []ArgKind{ArgBool},
		call: func(l wallpaper.Listener, a []*structpb.Value) {
			l.IsPreviewChanged(a[0].GetBoolValue())
		},
	},
	{
		Name: "DesiredSizeChanged",
		Args: []ArgKind{ArgInt, ArgInt},
		call: func(l wallpaper.Listener, a []*structpb.Value) {
			l.DesiredSizeChanged(intArg(a[0]), intArg(a[1]))
		},
	},
	{
		Name: "OffsetsChanged",
		Args: []ArgKind{ArgFloat, ArgFloat, ArgFloat, ArgFloat, ArgInt, ArgInt},
		call: func(l wallpaper.Listener, a []*structpb.Value) {
			l.OffsetsChanged(
				a[0].GetNumberValue(), a[1].GetNumberValue(),
				a[2].GetNumberValue(), a[3].GetNumberValue(),
				intArg(a[4]), intArg(a[5]),
			)
		},
	},
	{
		Name: "PreferenceChanged",
		Args: []ArgKind{ArgString},
		call: func(l wallpaper.Listener, a []*structpb.Value) {
			l.PreferenceChanged(a[0].GetStringValue())
		},
	},
	{
		Name: "PreferencesActivityTriggered",
		call: func(l wallpaper.Listener, _ []*structpb.Value) {
			l.PreferencesActivityTriggered()
		},
	},
	{
		Name: "MultiTapDetected",
		Args: []ArgKind{ArgFloat, ArgFloat},
		call: func(l wallpaper.Listener, a []*structpb.Value) {
			l.MultiTapDetected(a[0].GetNumberValue(), a[1].GetNumberValue())
		},
	},
	{
		Name: "CustomEventReceived",
		Args: []ArgKind{ArgString, ArgString},
		call: func(l wallpaper.Listener, a []*structpb.Value) {
			l.CustomEventReceived(a[0].GetStringValue(), a[1].GetStringValue())
		},
	},
}

var methodsByName = func() map[string]Method {
	m := make(map[string]Method, len(methods))
	for _, method := range methods {
		m[strings.ToLower(method.Name)] = method
	}
	return m
}()

// Methods returns the bridge method table
func Methods() []Method {
	out := make([]Method, len(methods))
	copy(out, methods)
	return out
}

// LookupMethod finds a method by name, ignoring case
func LookupMethod(name string) (Method, error) {
	m, ok := methodsByName[strings.ToLower(name)]
	if !ok {
		return Method{}, fmt.Errorf("%w: %q", ErrUnknownMethod, name)
	}
	return m, nil
}

// NewInvocation builds an invocation message. Arguments must be bool, int,
// float64 or string.
func NewInvocation(method string, args ...any) (*structpb.Struct, error) {
	list, err := structpb.NewList(args)
	if err != nil {
		return nil, fmt.Errorf("failed to encode arguments: %w", err)
	}

	return &structpb.Struct{
		Fields: map[string]*structpb.Value{
			"method": structpb.NewStringValue(method),
			"args":   structpb.NewListValue(list),
		},
	}, nil
}

// Invoke validates an invocation against the method table and calls the
// matching method on l
func Invoke(l wallpaper.Listener, msg *structpb.Struct) error {
	name := msg.GetFields()["method"].GetStringValue()
	if name == "" {
		return fmt.Errorf("%w: missing method name", ErrBadArguments)
	}

	m, err := LookupMethod(name)
	if err != nil {
		return err
	}

	args := msg.GetFields()["args"].GetListValue().GetValues()
	if err := m.validate(args); err != nil {
		return err
	}

	m.call(l, args)
	return nil
}

func (m Method) validate(args []*structpb.Value) error {
	if len(args) != len(m.Args) {
		return fmt.Errorf("%w: %s takes %d arguments, got %d", ErrBadArguments, m.Name, len(m.Args), len(args))
	}

	for i, kind := range m.Args {
		v := args[i]
		ok := false
		switch kind {
		case ArgBool:
			_, ok = v.GetKind().(*structpb.Value_BoolValue)
		case ArgInt:
			n, isNumber := v.GetKind().(*structpb.Value_NumberValue)
			ok = isNumber && n.NumberValue == math.Trunc(n.NumberValue) &&
				math.Abs(n.NumberValue) <= math.MaxInt32
		case ArgFloat:
			_, ok = v.GetKind().(*structpb.Value_NumberValue)
		case ArgString:
			_, ok = v.GetKind().(*structpb.Value_StringValue)
		}
		if !ok {
			return fmt.Errorf("%w: %s argument %d must be %s", ErrBadArguments, m.Name, i+1, kind)
		}
	}

	return nil
}

// ParseArgs converts command line strings into invocation arguments for method
func ParseArgs(method string, raw []string) ([]any, error) {
	m, err := LookupMethod(method)
	if err != nil {
		return nil, err
	}

	if len(raw) != len(m.Args) {
		return nil, fmt.Errorf("%w: usage: %s", ErrBadArguments, m.Usage())
	}

	args := make([]any, len(raw))
	for i, kind := range m.Args {
		var v any
		var err error
		switch kind {
		case ArgBool:
			v, err = strconv.ParseBool(raw[i])
		case ArgInt:
			v, err = strconv.Atoi(raw[i])
		case ArgFloat:
			v, err = strconv.ParseFloat(raw[i], 64)
		case ArgString:
			v = raw[i]
		}
		if err != nil {
			return nil, fmt.Errorf("%w: argument %d of %s: %v", ErrBadArguments, i+1, m.Name, err)
		}
		args[i] = v
	}

	return args, nil
}

// NewReply builds the reply to an invocation that returned err
func NewReply(err error) *structpb.Struct {
	fields := map[string]*structpb.Value{
		"ok": structpb.NewBoolValue(err == nil),
	}
	if err != nil {
		fields["error"] = structpb.NewStringValue(err.Error())
	}
	return &structpb.Struct{Fields: fields}
}

// ReplyError returns the error carried by a reply, or nil when it reports success
func ReplyError(reply *structpb.Struct) error {
	if reply.GetFields()["ok"].GetBoolValue() {
		return nil
	}

	msg := reply.GetFields()["error"].GetStringValue()
	if msg == "" {
		msg = "invocation failed"
	}
	return fmt.Errorf("server error: %s", msg)
}

func intArg(v *structpb.Value) int {
	return int(v.GetNumberValue())
}
