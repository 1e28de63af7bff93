package iio

// Context is an enumerated set of devices.
//
// The device list is fixed at construction; the daemon does not discover
// devices at runtime. Lookup walks the devices in enumeration order and
// returns the first one whose id or name matches.
type Context struct {
	devices []Device
}

// NewContext builds a context over an already-enumerated device set.
func NewContext(devices ...Device) *Context {
	return &Context{devices: devices}
}

// Devices returns the enumerated devices in order.
func (c *Context) Devices() []Device {
	return c.devices
}

// Lookup resolves id against the device ids and names of the context.
// It returns false if nothing matches.
func (c *Context) Lookup(id string) (Device, bool) {
	for _, dev := range c.devices {
		if dev.ID() == id || dev.Name() == id {
			return dev, true
		}
	}
	return nil, false
}
