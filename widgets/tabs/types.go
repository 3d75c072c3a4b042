package tabs

// TabID represents the different available tabs
type TabID int

const (
	ChannelsTab TabID = 0
	ListsTab    TabID = 1
	CloseTab    TabID = 2
)

var tabNames = []string{"Channels", "Channel Lists", "Quit"}
