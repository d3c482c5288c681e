package archive

// Statistics is the aggregate summary derived from one snapshot's records.
type Statistics struct {
	TotalDatasets     int   `json:"total_datasets"`
	TotalDownloads    int64 `json:"total_downloads"`
	TotalLikes        int64 `json:"total_likes"`
	MultilingualCount int   `json:"multilingual_count"`
}

// StatsDocument is the on-disk shape of a statistics snapshot.
type StatsDocument struct {
	LastUpdated string     `json:"last_updated"`
	Statistics  Statistics `json:"statistics"`
}

// Reduce computes snapshot statistics. Pure and total: absent fields have
// already defaulted to zero during decoding, so there is no error path.
func Reduce(datasets []Dataset) Statistics {
	stats := Statistics{TotalDatasets: len(datasets)}
	for _, d := range datasets {
		stats.TotalDownloads += d.Downloads
		stats.TotalLikes += d.Likes
		if len(d.Languages) > 1 {
			stats.MultilingualCount++
		}
	}
	return stats
}

// NewStatsDocument wraps statistics for day (YYYY-MM-DD) in the archive
// document shape, timestamped at midnight of that day.
func NewStatsDocument(day string, stats Statistics) StatsDocument {
	return StatsDocument{
		LastUpdated: day + "T00:00:00",
		Statistics:  stats,
	}
}
