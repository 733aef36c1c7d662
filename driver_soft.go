// +build !sdl2

package mdl

import (
	"github.com/db47h/mdl/driver"
	"github.com/db47h/mdl/driver/soft"
)

func defaultDriver() driver.Driver {
	return soft.New()
}
