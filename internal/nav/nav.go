// Package nav is the screen/modal state machine. It knows nothing about
// data or rendering; it only answers "what is visible right now".
package nav

type Screen string

const (
	ScreenDashboard    Screen = "dashboard"
	ScreenReferrals    Screen = "referrals"
	ScreenUpgrades     Screen = "upgrades"
	ScreenAchievements Screen = "achievements"
	ScreenTop          Screen = "top"
)

type Modal string

const (
	ModalNone    Modal = ""
	ModalAuth    Modal = "auth"
	ModalSuccess Modal = "success"
	ModalError   Modal = "error"
)

// Screens lists the menu in display order.
func Screens() []Screen {
	return []Screen{ScreenDashboard, ScreenReferrals, ScreenUpgrades, ScreenAchievements, ScreenTop}
}

// Controller holds exactly one active screen and at most one open modal.
type Controller struct {
	screen Screen
	modal  Modal
}

// NewController starts on the dashboard with no modal, like a fresh page load.
func NewController() *Controller {
	return &Controller{screen: ScreenDashboard, modal: ModalNone}
}

func (c *Controller) Active() Screen     { return c.screen }
func (c *Controller) ActiveModal() Modal { return c.modal }

// Go activates target and deactivates whatever was shown before.
func (c *Controller) Go(target Screen) {
	c.screen = target
}

// OpenModal replaces any modal already open; only one overlay at a time.
func (c *Controller) OpenModal(m Modal) {
	c.modal = m
}

// CloseModal is what the close control and the backdrop click both do.
func (c *Controller) CloseModal() {
	c.modal = ModalNone
}

// MenuActive reports whether the menu item for s should be highlighted.
// Exactly one item answers true at any time.
func (c *Controller) MenuActive(s Screen) bool {
	return c.screen == s
}
