// Package aggregate turns cleaned incident records into the structures the
// charts draw.
//
// [BuildSeries] counts incidents per year and cause and stacks them in the
// dataset's category order. [BuildAggregateHierarchy] groups all records by
// cause and then by survivor bucket; [BuildDetailHierarchy] groups the
// records of one cause by location and then by survivor bucket.
//
// Every record is one incident: leaf values are record counts and leaf
// fatalities are summed. Each grouping level splits into at most two
// buckets, [SurvivorsLabel] and [NoSurvivorsLabel]; empty buckets are left
// out.
//
// [Pipeline.Recompute] runs the whole pass for one selection: series,
// hierarchy, treemap layout and color domain. It is pure and returns fresh
// values on every call. A detail selection without data is not an error:
// the outputs are marked Empty with an explanatory message.
package aggregate
