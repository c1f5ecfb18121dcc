package dialog

// Mode is the visible shape of the surface.
type Mode int

const (
	ModeHidden Mode = iota
	ModeConfirm
	ModeAlert
)

func (m Mode) String() string {
	switch m {
	case ModeConfirm:
		return "confirm"
	case ModeAlert:
		return "alert"
	default:
		return "hidden"
	}
}

func (c *Controller) State() State { return c.state }

func (c *Controller) Mode() Mode {
	switch c.state.(type) {
	case Confirming:
		return ModeConfirm
	case Alerting:
		return ModeAlert
	default:
		return ModeHidden
	}
}

// Open reports whether the surface is shown and accepting input.
func (c *Controller) Open() bool {
	return c.Mode() != ModeHidden && !c.closing
}

// Closing reports whether the exit transition is playing.
func (c *Controller) Closing() bool { return c.closing }

// Queued is the number of requests waiting for the surface.
func (c *Controller) Queued() int { return len(c.queue) }

func (c *Controller) Focus() Focus { return c.focus }

func (c *Controller) Title() string {
	switch s := c.state.(type) {
	case Confirming:
		return s.Title
	case Alerting:
		return s.Title
	}
	return ""
}

func (c *Controller) Body() string {
	switch s := c.state.(type) {
	case Confirming:
		return s.Body
	case Alerting:
		return s.Message
	}
	return ""
}

// SubjectLabel is the quoted subject of a confirmation; alerts have none.
func (c *Controller) SubjectLabel() string {
	if s, ok := c.state.(Confirming); ok {
		return `"` + s.Subject + `"`
	}
	return ""
}

func (c *Controller) ConfirmLabel() string {
	if c.Mode() == ModeConfirm {
		return "Delete"
	}
	return "OK"
}

func (c *Controller) Variant() Variant {
	if c.Mode() == ModeConfirm {
		return VariantDanger
	}
	return VariantNeutral
}
