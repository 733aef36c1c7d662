package mdl

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"golang.org/x/xerrors"
)

func TestInit(t *testing.T) {
	d := newMock()
	l, err := Init(WithDriver(d))
	if err != nil {
		t.Fatal(err)
	}
	assert.Equal(t, 1, d.count("Init"))
	assert.Equal(t, d, l.Driver())
	l.Close()
}

func TestInit_failure(t *testing.T) {
	d := newMock()
	d.failOn("Init")
	l, err := Init(WithDriver(d))
	assert.Nil(t, l)

	var ae *AcquireError
	if assert.True(t, xerrors.As(err, &ae)) {
		assert.Equal(t, "Init", ae.Op)
	}
	assert.True(t, xerrors.Is(err, errNative))
}

func TestLib_Close_idempotent(t *testing.T) {
	l, d := newTestLib(t)
	l.Close()
	l.Close()
	assert.Equal(t, 1, d.count("Quit"))
	assert.Nil(t, l.Driver())
}

func TestLib_use_after_close(t *testing.T) {
	l, _ := newTestLib(t)
	l.Close()
	assert.PanicsWithValue(t, "mdl: use of closed Lib", func() { l.Pump() })
}

func TestLib_Pump(t *testing.T) {
	l, d := newTestLib(t)
	defer l.Close()
	assert.False(t, l.Pump())
	d.quit = true
	assert.True(t, l.Pump())
}
