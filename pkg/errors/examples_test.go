package errors_test

import (
	"fmt"

	"github.com/niklas-joh/portfolio-tracker-google-sheets-sub000/pkg/errors"
)

// Example demonstrates basic error creation and checking.
func Example() {
	err := errors.NewNotFoundError("mapping", "DIVIDENDS/ticker")

	if errors.IsNotFound(err) {
		fmt.Println("Mapping not found")
	}

	// Output: Mapping not found
}

// Example_validationError shows how entity invariant violations surface.
func Example_validationError() {
	err := errors.NewValidationError("dividend", "amount.currency", "EURO", "must be a three-letter currency code")

	fmt.Println(err)
	fmt.Println(errors.IsValidationError(err))

	// Output:
	// dividend validation failed for field amount.currency: must be a three-letter currency code
	// true
}

// Example_storeIO shows the degraded read path of the mapping store.
func Example_storeIO() {
	err := errors.WrapStoreIO("read", "_FieldMappings", fmt.Errorf("sheet locked"))

	if errors.IsStoreIO(err) {
		fmt.Println("falling back to empty mappings:", err)
	}

	// Output: falling back to empty mappings: mapping store read of _FieldMappings failed: sheet locked
}
