package bridge

import (
	"bytes"
	"fmt"
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"google.golang.org/protobuf/types/known/structpb"
)

// recordingListener journals every call as a formatted line
type recordingListener struct {
	mu    sync.Mutex
	calls []string
}

func (r *recordingListener) record(format string, args ...any) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.calls = append(r.calls, fmt.Sprintf(format, args...))
}

func (r *recordingListener) Calls() []string {
	r.mu.Lock()
	defer r.mu.Unlock()
	return append([]string(nil), r.calls...)
}

func (r *recordingListener) VisibilityChanged(visible bool) {
	r.record("VisibilityChanged(%v)", visible)
}

func (r *recordingListener) IsPreviewChanged(preview bool) {
	r.record("IsPreviewChanged(%v)", preview)
}

func (r *recordingListener) DesiredSizeChanged(width, height int) {
	r.record("DesiredSizeChanged(%d, %d)", width, height)
}

func (r *recordingListener) OffsetsChanged(xOffset, yOffset, xOffsetStep, yOffsetStep float64, xPixelOffset, yPixelOffset int) {
	r.record("OffsetsChanged(%v, %v, %v, %v, %d, %d)", xOffset, yOffset, xOffsetStep, yOffsetStep, xPixelOffset, yPixelOffset)
}

func (r *recordingListener) PreferenceChanged(key string) {
	r.record("PreferenceChanged(%s)", key)
}

func (r *recordingListener) PreferencesActivityTriggered() {
	r.record("PreferencesActivityTriggered()")
}

func (r *recordingListener) MultiTapDetected(x, y float64) {
	r.record("MultiTapDetected(%v, %v)", x, y)
}

func (r *recordingListener) CustomEventReceived(eventName, eventData string) {
	r.record("CustomEventReceived(%s, %s)", eventName, eventData)
}

func TestInvoke(t *testing.T) {
	tests := []struct {
		method string
		args   []any
		want   string
	}{
		{"VisibilityChanged", []any{true}, "VisibilityChanged(true)"},
		{"IsPreviewChanged", []any{false}, "IsPreviewChanged(false)"},
		{"DesiredSizeChanged", []any{1080, 2340}, "DesiredSizeChanged(1080, 2340)"},
		{"OffsetsChanged", []any{0.5, 0.0, 0.25, 0.0, -540, 0}, "OffsetsChanged(0.5, 0, 0.25, 0, -540, 0)"},
		{"PreferenceChanged", []any{"theme"}, "PreferenceChanged(theme)"},
		{"PreferencesActivityTriggered", nil, "PreferencesActivityTriggered()"},
		{"MultiTapDetected", []any{10.5, 20.0}, "MultiTapDetected(10.5, 20)"},
		{"CustomEventReceived", []any{"weather", "rain"}, "CustomEventReceived(weather, rain)"},
		{"visibilitychanged", []any{false}, "VisibilityChanged(false)"},
	}

	for _, tt := range tests {
		t.Run(tt.method, func(t *testing.T) {
			l := &recordingListener{}
			msg, err := NewInvocation(tt.method, tt.args...)
			require.NoError(t, err)

			require.NoError(t, Invoke(l, msg))
			assert.Equal(t, []string{tt.want}, l.Calls())
		})
	}
}

func TestInvokeRejects(t *testing.T) {
	tests := []struct {
		name    string
		msg     func() *structpb.Struct
		wantErr error
	}{
		{
			name: "unknown method",
			msg: func() *structpb.Struct {
				m, _ := NewInvocation("Explode")
				return m
			},
			wantErr: ErrUnknownMethod,
		},
		{
			name:    "missing method",
			msg:     func() *structpb.Struct { return &structpb.Struct{} },
			wantErr: ErrBadArguments,
		},
		{
			name: "too few arguments",
			msg: func() *structpb.Struct {
				m, _ := NewInvocation("DesiredSizeChanged", 100)
				return m
			},
			wantErr: ErrBadArguments,
		},
		{
			name: "too many arguments",
			msg: func() *structpb.Struct {
				m, _ := NewInvocation("PreferencesActivityTriggered", "extra")
				return m
			},
			wantErr: ErrBadArguments,
		},
		{
			name: "wrong argument type",
			msg: func() *structpb.Struct {
				m, _ := NewInvocation("VisibilityChanged", "yes")
				return m
			},
			wantErr: ErrBadArguments,
		},
		{
			name: "fractional integer",
			msg: func() *structpb.Struct {
				m, _ := NewInvocation("DesiredSizeChanged", 100.5, 200)
				return m
			},
			wantErr: ErrBadArguments,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			l := &recordingListener{}
			err := Invoke(l, tt.msg())
			require.ErrorIs(t, err, tt.wantErr)
			assert.Empty(t, l.Calls(), "listener must not be called")
		})
	}
}

func TestParseArgs(t *testing.T) {
	t.Run("converts by method signature", func(t *testing.T) {
		args, err := ParseArgs("OffsetsChanged", []string{"0.5", "0", "0.25", "0", "-540", "0"})
		require.NoError(t, err)
		assert.Equal(t, []any{0.5, 0.0, 0.25, 0.0, -540, 0}, args)

		args, err = ParseArgs("visibilityChanged", []string{"true"})
		require.NoError(t, err)
		assert.Equal(t, []any{true}, args)
	})

	t.Run("reports usage on wrong arity", func(t *testing.T) {
		_, err := ParseArgs("CustomEventReceived", []string{"only-name"})
		require.ErrorIs(t, err, ErrBadArguments)
		assert.Contains(t, err.Error(), "CustomEventReceived <string> <string>")
	})

	t.Run("rejects unparsable values", func(t *testing.T) {
		_, err := ParseArgs("DesiredSizeChanged", []string{"wide", "100"})
		assert.ErrorIs(t, err, ErrBadArguments)
	})

	t.Run("rejects unknown methods", func(t *testing.T) {
		_, err := ParseArgs("Nope", nil)
		assert.ErrorIs(t, err, ErrUnknownMethod)
	})
}

func TestReply(t *testing.T) {
	assert.NoError(t, ReplyError(NewReply(nil)))

	err := ReplyError(NewReply(fmt.Errorf("boom")))
	require.Error(t, err)
	assert.Contains(t, err.Error(), "boom")
}

func TestFraming(t *testing.T) {
	msg, err := NewInvocation("DesiredSizeChanged", 720, 1280)
	require.NoError(t, err)

	var buf bytes.Buffer
	require.NoError(t, writeMessage(&buf, msg))
	require.NoError(t, writeMessage(&buf, NewReply(nil)))

	got, err := readMessage(&buf)
	require.NoError(t, err)
	assert.Equal(t, "DesiredSizeChanged", got.GetFields()["method"].GetStringValue())
	assert.Len(t, got.GetFields()["args"].GetListValue().GetValues(), 2)

	reply, err := readMessage(&buf)
	require.NoError(t, err)
	assert.NoError(t, ReplyError(reply))

	_, err = readMessage(&buf)
	assert.Error(t, err, "empty buffer")
}

func TestFramingRejectsOversizedLength(t *testing.T) {
	buf := bytes.NewBuffer([]byte{0xff, 0xff, 0xff, 0xff})
	_, err := readMessage(buf)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "too large")
}

func TestMethodsCoverListener(t *testing.T) {
	names := make([]string, 0, len(Methods()))
	for _, m := range Methods() {
		names = append(names, m.Name)
	}
	assert.ElementsMatch(t, []string{
		"VisibilityChanged",
		"IsPreviewChanged",
		"DesiredSizeChanged",
		"OffsetsChanged",
		"PreferenceChanged",
		"PreferencesActivityTriggered",
		"MultiTapDetected",
		"CustomEventReceived",
	}, names)
}
