package jobs

import "strings"

// ReportByCompany groups records by company name, keeping input order inside each group.
func ReportByCompany(records []Record) map[string][]map[string]string {
	report := make(map[string][]map[string]string)
	for _, record := range records {
		company := strings.TrimSpace(record.Company)
		if company == "" {
			company = UnknownCompany
		}
		report[company] = append(report[company], map[string]string{
			"title": record.Title,
			"url":   record.URL,
		})
	}
	return report
}
