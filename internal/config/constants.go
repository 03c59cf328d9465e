package config

// Application constants
const (
	AppName = "shipreport"

	// Fixed names used when nothing is configured
	DefaultInputFile     = "data.json"
	DefaultShipmentsFile = "output.csv"
	DefaultStatsFile     = "delivery_stats.csv"
	DefaultLogFile       = "logs/shipreport.log"

	// Pickup and delivery times are displayed in India Standard Time
	DefaultTimeZone = "Asia/Kolkata"

	// Report headers
	HeaderTrackingNumber   = "Tracking number"
	HeaderPaymentType      = "Payment Type"
	HeaderPickupTime       = "Pickup Date Time in IST"
	HeaderDeliveryTime     = "Delivery Date Time in IST"
	HeaderDaysTaken        = "Days taken for delivery"
	HeaderShipmentWeight   = "Shipment weight"
	HeaderPickupAddress    = "Pickup Pincode, City, State"
	HeaderDropAddress      = "Drop Pincode, City, State"
	HeaderDeliveryAttempts = "Number of delivery attempts needed"
	HeaderMetric           = "Metric"

	// Statistic row labels
	MetricMean   = "Mean"
	MetricMedian = "Median"
	MetricMode   = "Mode"

	// Workbook sheet names
	SheetShipments  = "Shipments"
	SheetStatistics = "Statistics"
)
