package channelBrowser

import (
	"tv-frame/pkg/channels"
	"tv-frame/pkg/input"
	"tv-frame/pkg/settings"
	"tv-frame/widgets/channelList"
	"tv-frame/widgets/tabs"
)

// ActionKind tells the root screen what the user asked for
type ActionKind int

const (
	ActionNone ActionKind = iota
	ActionWatch
	ActionQuit
)

// Action is returned by Update
type Action struct {
	Kind ActionKind
	// Index into Channels() of the channel to watch
	Index int
}

// ChannelsScreen lets the user pick a channel list and a channel from it
type ChannelsScreen struct {
	configsDir   string
	settingsPath string
	settings     settings.Settings

	tabsWidget     *tabs.Widget
	listsWidget    *channelList.Widget
	channelsWidget *channelList.Widget

	activeList string
	channels   []channels.Channel
	message    string

	keyTracker   input.KeyPressTracker
	mouseTracker input.MousePressTracker
}
