// Package sheets reads Google Sheets spreadsheets for export.
//
// A spreadsheet is fetched with a single spreadsheets.get call including grid
// data, restricted by a field mask to the values and number format types
// needed to render CSV. Numbers formatted as dates or times are converted
// from spreadsheet serial numbers into wall clock times in the spreadsheet's
// own timezone.
package sheets
