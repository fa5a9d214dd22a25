package sqlinline

const QListCustomers = `--sql a06158ec-7a95-4f90-863e-ecc028684e86
select id::text, name, coalesce(email, ''), photo_url, measurements
from customers
order by created_at desc;
`

const QInsertCustomer = `--sql b5bae2cc-f9ae-40a6-9741-80bc0040c143
insert into customers (id, name, email, photo_url, measurements, created_at)
values (gen_random_uuid(), $1::text, $2::text, $3::text, $4::jsonb, now())
returning id::text, name, coalesce(email, ''), photo_url, measurements;
`
