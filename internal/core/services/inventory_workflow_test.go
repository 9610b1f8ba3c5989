package services_test

import (
	"sync"

	"github.com/SscSPs/smb_books_app/internal/core/domain"
	"github.com/SscSPs/smb_books_app/internal/dto"
)

func (s *WorkflowSuite) TestConcurrentFirstReceiptsShareOneItem() {
	productID := s.product("P-7")
	cost := dec("3")

	const workers = 8
	var wg sync.WaitGroup
	errs := make([]error, workers)
	for i := 0; i < workers; i++ {
		wg.Add(1)
		go func(i int) {
			defer wg.Done()
			_, errs[i] = s.svc.Inventory.RecordMovement(s.ctx, s.companyID, dto.InventoryMovementRequest{
				ProductID: productID, Type: domain.MovementIn, Quantity: dec("2"), UnitCost: &cost,
			}, s.owner)
		}(i)
	}
	wg.Wait()
	for _, err := range errs {
		s.Require().NoError(err)
	}

	item, err := s.svc.Inventory.GetItem(s.ctx, s.companyID, productID, s.owner)
	s.Require().NoError(err)
	s.True(dec("16").Equal(item.Quantity), "quantity %s", item.Quantity)
	s.True(dec("3").Equal(item.AverageCost))

	txns, err := s.svc.Inventory.ListTransactions(s.ctx, s.companyID, productID, s.owner)
	s.Require().NoError(err)
	s.Len(txns, workers)
	for _, t := range txns {
		s.Equal(item.InventoryID, t.InventoryID)
	}
	s.True(item.Quantity.Equal(domain.ReplayQuantity(txns)))
}
