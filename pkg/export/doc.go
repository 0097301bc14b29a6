// Package export serializes a figure to a Vega JSON document plus CSV
// tables.
//
// # Overview
//
// Export happens in one pass over the figure and all of its views:
//
//  1. The y unit is resolved: the figure's explicit unit, else the unit of
//     the first y column found on the figure's layers and then on each
//     view's layers, else dimensionless.
//  2. Every layer is checked against the y unit.
//  3. Colors are assigned across the whole layer population.
//  4. Each data source read by a layer becomes one [Table]: the time column
//     formatted as ISO 8601 plus the columns layers read (or all columns
//     with [WithFullData]), y columns converted to the y unit.
//  5. Scales, axes and marks are emitted for the figure, and for each view
//     a "_views" entry lists the marks it shows. Marks that only views
//     hold go to "_extramarks".
//
// Nothing is written until every step succeeded, so unit errors never
// leave partial output behind.
//
// # Usage
//
//	doc, err := export.Build(fig)
//	if err != nil {
//	    return err
//	}
//	return doc.WriteJSON(os.Stdout)
//
// [Save] writes the JSON document and one data_<id>.csv side file per table
// next to it. [SaveBundle] writes the same files plus an index.html page to
// a zip archive.
package export
