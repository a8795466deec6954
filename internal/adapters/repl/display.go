package repl

import (
	"fmt"
	"io"
)

func printHelp(out io.Writer) {
	fmt.Fprint(out, `
Inventory
  /items                          list inventory
  /add-item                       add an item (guided)
  /restock <item-id> <qty>        set the stock count
  /delete-item <item-id>
  /low-stock [threshold]          items at or below threshold (default 1)
Customers
  /customers                      list customers and pending balances
  /add-customer <phone> <name>
  /delete-customer <id>           also deletes the customer's bills
  /statement <id>
Bills
  /new-bill <customer-id> [estimate|invoice]   draft a bill (guided)
  /bills [customer-id]
  /bill <bill-id>
  /pay <customer-id> <amount>     allocate a payment oldest bill first
  /revenue <target>               post a manual revenue adjustment
Reports
  /summary  /receivables  /verify
Session
  /status  /save  /help  /exit

Anything without a slash is sent to the AI, e.g. "invoice ring 0003 for C0002, paid 5000".
`)
}
