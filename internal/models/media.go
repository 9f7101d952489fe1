// Package models contains the catalog data structures shared across tqc
package models

import "fmt"

// Show is a catalog show with its seasons in API order
type Show struct {
	ID      int64
	Name    string
	Seasons []Season
}

// Season belongs to exactly one show. Number is what users type on the
// command line, ID is what the catalog API expects in URLs.
type Season struct {
	ID     int64
	Name   string
	Number int
}

// Episode is a single episode; Number is only unique within its season
type Episode struct {
	ID           int64
	Title        string
	Number       int
	SeasonNumber int
	Length       int // minutes
}

// DownloadItem pairs a resolved season number with one of its episodes
type DownloadItem struct {
	SeasonNumber int
	Episode      Episode
}

// SeasonByNumber returns the season whose human-facing number matches
func (s *Show) SeasonByNumber(number int) (Season, bool) {
	for _, season := range s.Seasons {
		if season.Number == number {
			return season, true
		}
	}
	return Season{}, false
}

// Code returns the SxxEyy code of the item
func (d DownloadItem) Code() string {
	return fmt.Sprintf("S%02dE%02d", d.SeasonNumber, d.Episode.Number)
}

// Label returns "SxxEyy - Title", the form used in summaries and file names
func (d DownloadItem) Label() string {
	return d.Code() + " - " + d.Episode.Title
}
