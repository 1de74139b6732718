package device

import (
	"fmt"

	"github.com/veandco/go-sdl2/sdl"
)

// InitJoysticks starts the SDL joystick subsystem. Must be called on the
// main goroutine before any other joystick call.
func InitJoysticks() error {
	if err := sdl.Init(sdl.INIT_JOYSTICK); err != nil {
		return fmt.Errorf("init joystick subsystem: %w", err)
	}
	return nil
}

// QuitJoysticks shuts SDL down.
func QuitJoysticks() {
	sdl.Quit()
}

// JoystickInfo identifies one attached device.
type JoystickInfo struct {
	Index   int
	Name    string
	Axes    int
	Buttons int
}

// ListJoysticks reports every attached joystick. Devices that fail to open
// are skipped.
func ListJoysticks() []JoystickInfo {
	n := sdl.NumJoysticks()
	infos := make([]JoystickInfo, 0, n)
	for i := 0; i < n; i++ {
		j := sdl.JoystickOpen(i)
		if j == nil {
			continue
		}
		infos = append(infos, JoystickInfo{
			Index:   i,
			Name:    j.Name(),
			Axes:    j.NumAxes(),
			Buttons: j.NumButtons(),
		})
		j.Close()
	}
	return infos
}

// Joystick wraps one opened SDL joystick.
type Joystick struct {
	js *sdl.Joystick
}

// OpenJoystick opens the device at index.
func OpenJoystick(index int) (*Joystick, error) {
	if n := sdl.NumJoysticks(); index < 0 || index >= n {
		return nil, fmt.Errorf("joystick %d not present (%d attached)", index, n)
	}
	js := sdl.JoystickOpen(index)
	if js == nil {
		return nil, fmt.Errorf("open joystick %d: %v", index, sdl.GetError())
	}
	return &Joystick{js: js}, nil
}

func (j *Joystick) Name() string {
	return j.js.Name()
}

func (j *Joystick) Axes() int {
	return j.js.NumAxes()
}

func (j *Joystick) Buttons() int {
	return j.js.NumButtons()
}

// InstanceID is the ID axis and button events carry; it differs from the
// open index once devices come and go.
func (j *Joystick) InstanceID() sdl.JoystickID {
	return j.js.InstanceID()
}

func (j *Joystick) Close() {
	j.js.Close()
}
