package notify

import "log/slog"

// LogSink is a Notifier that records deltas to the structured log. Used when
// no UI bridge is attached, and as the tail of a fan-out in front of one.
type LogSink struct {
	logger *slog.Logger
}

func NewLogSink(logger *slog.Logger) *LogSink {
	return &LogSink{logger: logger}
}

func (s *LogSink) NotifyFilterResult(n *FilterResultNotification) {
	s.logger.Debug("filter result",
		"view_id", n.ViewID,
		"became_visible", len(n.VisibleRows),
		"became_invisible", len(n.InvisibleRows))
}

func (s *LogSink) NotifyFilterChanged(n *FilterChangesetNotification) {
	s.logger.Debug("filter config changed",
		"view_id", n.ViewID,
		"inserted", len(n.InsertedFilters),
		"updated", len(n.UpdatedFilters),
		"deleted", len(n.DeletedFilters))
}

func (s *LogSink) NotifyGroupRows(n *GroupRowsNotification) {
	s.logger.Debug("group rows changed",
		"group_id", n.GroupID,
		"inserted", len(n.InsertedRows),
		"deleted", len(n.DeletedRows))
}

func (s *LogSink) NotifyGroupChanged(n *GroupChangesetNotification) {
	s.logger.Debug("groups changed",
		"view_id", n.ViewID,
		"inserted", len(n.InsertedGroups),
		"deleted", len(n.DeletedGroupIDs))
}
