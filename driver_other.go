//go:build !linux

package serialport

var drivers = map[string]Driver{
	"portable": PortableDriver{},
}

func defaultDriver() Driver {
	return PortableDriver{}
}
