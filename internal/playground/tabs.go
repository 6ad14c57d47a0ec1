package playground

// Tab selects what the right pane shows.
type Tab int

const (
	TabResult Tab = iota
	TabConsole
)

func (t Tab) String() string {
	switch t {
	case TabConsole:
		return "Console"
	default:
		return "Result"
	}
}

// TabController is the Result/Console selector.
type TabController struct {
	active Tab
}

// NewTabController returns a controller showing the Result tab.
func NewTabController() *TabController {
	return &TabController{active: TabResult}
}

// Active returns the selected tab.
func (c *TabController) Active() Tab { return c.active }

// SwitchTo selects tab and reports whether the selection changed.
func (c *TabController) SwitchTo(tab Tab) bool {
	if tab != TabResult && tab != TabConsole {
		return false
	}
	if c.active == tab {
		return false
	}
	c.active = tab
	return true
}

// Toggle selects the other tab.
func (c *TabController) Toggle() {
	if c.active == TabResult {
		c.active = TabConsole
	} else {
		c.active = TabResult
	}
}
