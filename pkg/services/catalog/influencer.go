package catalog

// Default returns the influencer tracker reports.
func Default() []Definition {
	return []Definition{
		{
			Name: "top_influencers_roi",
			SQL: `
SELECT i.name, ROUND(AVG(pm.roi), 2) AS avg_roi
FROM Influencer i
JOIN Performance_Metrics pm ON i.influencer_id = pm.influencer_id
GROUP BY i.influencer_id, i.name
ORDER BY avg_roi DESC
LIMIT 5`,
			Columns: []string{"name", "avg_roi"},
			Chart: ChartDefinition{
				Kind:     "bar",
				Title:    "Top Influencers by Average ROI",
				XLabel:   "Influencer Name",
				YLabel:   "Average ROI",
				Category: "name",
				Value:    "avg_roi",
				Output:   "top_influencers_roi.png",
				Rotation: degrees(20),
			},
		},
		{
			Name: "payment_status_distribution",
			SQL: `
SELECT status, COUNT(*) AS count
FROM Payments
GROUP BY status
ORDER BY status`,
			Columns: []string{"status", "count"},
			Chart: ChartDefinition{
				Kind:     "pie",
				Title:    "Payment Status Distribution",
				Category: "status",
				Value:    "count",
				Output:   "payment_status_distribution.png",
			},
		},
		{
			Name: "campaign_completion_rate",
			SQL: `
SELECT
    c.campaign_name,
    ROUND(
        100.0 * SUM(CASE WHEN d.status = 'Approved' THEN 1 ELSE 0 END)
        / COUNT(d.deliverable_id), 2
    ) AS completion_rate
FROM Campaigns c
JOIN Deliverables d ON c.campaign_id = d.campaign_id
GROUP BY c.campaign_id, c.campaign_name
ORDER BY c.campaign_id`,
			Columns: []string{"campaign_name", "completion_rate"},
			Chart: ChartDefinition{
				Kind:     "bar",
				Title:    "Campaign Completion Rate (%)",
				XLabel:   "Campaign",
				YLabel:   "Completion Rate",
				Category: "campaign_name",
				Value:    "completion_rate",
				Output:   "campaign_completion_rate.png",
				Rotation: degrees(30),
			},
		},
	}
}

func degrees(v float64) *float64 {
	return &v
}
