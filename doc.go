// Package criptofiscal turns crypto-exchange export files into a canonical
// EUR-denominated ledger and a FIFO cost-basis fiscal report.
//
// The pipeline runs in stages: raw export rows are grouped by timestamp,
// split into sub-operations, classified (COMPRA, VENTA, PERMUTA, ...),
// valued in EUR against a price oracle, assessed against a FIFO book of
// acquisition lots, and finally aggregated into per-year, per-asset fiscal
// buckets for the Spanish "base del ahorro" declaration.
//
// All amounts are exact decimals behind the Quantity and Money types.
// Division precision is explicit configuration, threaded to every division
// site instead of living in process-global decimal state.
package criptofiscal
