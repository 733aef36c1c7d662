// +build sdl2

package mdl

import (
	"github.com/db47h/mdl/driver"
	"github.com/db47h/mdl/driver/sdl"
)

func defaultDriver() driver.Driver {
	return sdl.New()
}
