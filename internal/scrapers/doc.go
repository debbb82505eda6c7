// Package scrapers turns remote ROM indexes into catalog records.
//
// Each scraper reads the listing pages named by a source, keeps the files
// whose names match the source filter, and emits one record per file with a
// single download link. Directory listings are parsed with goquery; the
// NoPayStation database is a tab-separated file.
//
// Registered names: myrient, mariocube, internet_archive, nopaystation.
package scrapers
